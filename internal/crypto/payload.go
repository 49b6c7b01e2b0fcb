// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package crypto

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/sora-grayscale/spliit-sub000/models"
)

const (
	// PayloadVersion is stamped on every payload this revision produces.
	// It allows the wire format to evolve without breaking old ciphertext.
	PayloadVersion uint8 = 1

	// NonceSize is the AES-GCM nonce length (96 bits).
	NonceSize = 12
)

// fieldEncoding is base64url without padding: no '+', '/' or '=', so the
// serialized field embeds safely in JSON and URLs.
var fieldEncoding = base64.RawURLEncoding

// EncryptedPayload is the output of [CipherService.Encrypt]: opaque to
// callers outside this package, serialized at the persistence boundary as
// base64url(nonce || ciphertext).
type EncryptedPayload struct {
	Ciphertext []byte
	Nonce      []byte
	Version    uint8
}

// EncodeField serializes the payload for storage.
func (p EncryptedPayload) EncodeField() models.EncryptedField {
	blob := make([]byte, 0, len(p.Nonce)+len(p.Ciphertext))
	blob = append(blob, p.Nonce...)
	blob = append(blob, p.Ciphertext...)
	return models.EncryptedField(fieldEncoding.EncodeToString(blob))
}

// DecodeField parses a stored field back into an [EncryptedPayload]. The
// blob must decode and be long enough to hold a nonce plus at least one
// ciphertext byte; anything else is ErrInvalidInput.
func DecodeField(field models.EncryptedField) (EncryptedPayload, error) {
	blob, err := fieldEncoding.DecodeString(string(field))
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("decode field: %w", ErrInvalidInput)
	}
	if len(blob) <= NonceSize {
		return EncryptedPayload{}, fmt.Errorf("field too short (%d bytes): %w", len(blob), ErrInvalidInput)
	}

	return EncryptedPayload{
		Nonce:      blob[:NonceSize],
		Ciphertext: blob[NonceSize:],
		Version:    PayloadVersion,
	}, nil
}

var encryptedFieldPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsEncryptedField reports whether a stored string looks like a serialized
// ciphertext field. This is a heuristic for telling encrypted data apart
// from legacy plaintext, not a guarantee: a decryption failure downstream
// must still be handled as "treat as plaintext".
func IsEncryptedField(s string) bool {
	return len(s) >= 20 && encryptedFieldPattern.MatchString(s)
}

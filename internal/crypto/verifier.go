// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package crypto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// Canonical verification plaintext. Static and versioned: no timestamps or
// per-account data, so payload size and content leak nothing across groups.
const (
	verificationTest    = "password_verification"
	verificationVersion = "1.0"
)

type verificationPlaintext struct {
	Test    string `json:"test"`
	Version string `json:"version"`
}

// verifier is the private implementation of [VerifierService].
type verifier struct {
	keys   KeyService
	cipher CipherService
}

// NewVerifierService constructs a [VerifierService] on top of the given key
// derivation and cipher services.
func NewVerifierService(keys KeyService, cipher CipherService) VerifierService {
	return &verifier{keys: keys, cipher: cipher}
}

// CreateTest implements [VerifierService].
func (v *verifier) CreateTest(password string, ctx models.EncryptionContext) (EncryptedPayload, error) {
	key, err := v.keys.DeriveKey(password, ctx)
	if err != nil {
		return EncryptedPayload{}, err
	}

	plaintext, err := json.Marshal(verificationPlaintext{
		Test:    verificationTest,
		Version: verificationVersion,
	})
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("marshal verification plaintext: %w", err)
	}

	return v.cipher.Encrypt(plaintext, key)
}

// Verify implements [VerifierService]. Wrong password and tampered blob both
// come back as (false, nil); only malformed input (bad context, empty
// password) produces an error.
func (v *verifier) Verify(password string, ctx models.EncryptionContext, stored EncryptedPayload) (bool, error) {
	key, err := v.keys.DeriveKey(password, ctx)
	if err != nil {
		return false, err
	}

	plaintext, err := v.cipher.Decrypt(stored, key)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			return false, nil
		}
		return false, err
	}

	var parsed verificationPlaintext
	if err := json.Unmarshal(plaintext, &parsed); err != nil {
		return false, nil
	}

	return parsed.Test == verificationTest && parsed.Version == verificationVersion, nil
}

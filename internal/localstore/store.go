// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

// Package localstore protects local key/value data at rest. Values are
// encrypted with a key that exists only for the lifetime of the process
// (regenerated per session), so a copy of the underlying storage alone
// reveals nothing. This raises the bar against casual inspection and
// incidental exposure; it explicitly does not protect against a compromised
// execution environment.
package localstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sora-grayscale/spliit-sub000/internal/crypto"
	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/models"
)

const (
	// methodAEAD marks records sealed with AES-256-GCM.
	methodAEAD = "aes-gcm"

	// methodXOR marks records written by the obfuscation fallback when the
	// AEAD path is unavailable. Not encryption; just keeps casual eyes out.
	methodXOR = "xor"

	// MaxAge is how long a stored record stays readable. Older entries are
	// treated as absent and removed.
	MaxAge = 24 * time.Hour
)

// ErrStorageCorrupted marks a record that exists but cannot be decoded or
// decrypted. GetSecure recovers from it locally: the offending entry is
// deleted and the read proceeds as a miss.
var ErrStorageCorrupted = errors.New("local store record corrupted")

// record is the on-disk JSON envelope for one protected value.
type record struct {
	Method   string    `json:"method"`
	Payload  string    `json:"payload"`
	StoredAt time.Time `json:"storedAt"`
}

// Store wraps a KV with value-at-rest protection.
type Store struct {
	kv        KV
	cipher    crypto.CipherService
	masterKey []byte
	maxAge    time.Duration
	log       *logger.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// New constructs a Store with a fresh random master key. The key never
// leaves process memory and is not persisted anywhere, which is the point:
// local records become unreadable once the session ends.
func New(kv KV, cipher crypto.CipherService, log *logger.Logger) (*Store, error) {
	masterKey := make([]byte, crypto.KeySize)
	if _, err := io.ReadFull(rand.Reader, masterKey); err != nil {
		return nil, fmt.Errorf("generate local store key: %w", err)
	}

	return &Store{
		kv:        kv,
		cipher:    cipher,
		masterKey: masterKey,
		maxAge:    MaxAge,
		log:       log,
		now:       time.Now,
	}, nil
}

// SetSecure protects value and writes it under key. When the AEAD path
// fails the value is still written, XOR-obfuscated, and the record says so.
func (s *Store) SetSecure(key, value string) error {
	rec := record{StoredAt: s.now()}

	payload, err := s.cipher.Encrypt([]byte(value), s.masterKey)
	if err == nil {
		rec.Method = methodAEAD
		rec.Payload = string(payload.EncodeField())
	} else {
		s.log.Warn().Err(err).Msg("AEAD unavailable, falling back to obfuscation")
		rec.Method = methodXOR
		rec.Payload = base64.RawURLEncoding.EncodeToString(xorBytes([]byte(value), s.masterKey))
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal local record: %w", err)
	}

	return s.kv.Set(key, string(raw))
}

// GetSecure reads and unprotects the value under key. Corrupted records are
// deleted and reported as a miss; records older than MaxAge are treated as
// absent; legacy plaintext entries are migrated in place and returned.
func (s *Store) GetSecure(key string) (string, bool, error) {
	raw, found, err := s.kv.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("read local record: %w", err)
	}
	if !found {
		return "", false, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Method == "" {
		// Legacy plaintext entry from before encryption was introduced:
		// migrate it in place and hand it back.
		if err := s.SetSecure(key, raw); err != nil {
			return "", false, err
		}
		s.log.Debug().Str("key", key).Msg("migrated legacy plaintext entry")
		return raw, true, nil
	}

	if s.now().Sub(rec.StoredAt) > s.maxAge {
		_ = s.kv.Delete(key)
		return "", false, nil
	}

	value, err := s.open(rec)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("deleting corrupted local record")
		_ = s.kv.Delete(key)
		return "", false, nil
	}

	return value, true, nil
}

// Delete removes the record under key.
func (s *Store) Delete(key string) error {
	return s.kv.Delete(key)
}

// open dispatches on the record's stored method.
func (s *Store) open(rec record) (string, error) {
	switch rec.Method {
	case methodAEAD:
		payload, err := crypto.DecodeField(models.EncryptedField(rec.Payload))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorageCorrupted, err)
		}
		plaintext, err := s.cipher.Decrypt(payload, s.masterKey)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorageCorrupted, err)
		}
		return string(plaintext), nil

	case methodXOR:
		obfuscated, err := base64.RawURLEncoding.DecodeString(rec.Payload)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStorageCorrupted, err)
		}
		return string(xorBytes(obfuscated, s.masterKey)), nil

	default:
		return "", fmt.Errorf("%w: unknown method %q", ErrStorageCorrupted, rec.Method)
	}
}

// xorBytes is its own inverse: applying it twice with the same key returns
// the input.
func xorBytes(data, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// aeadCipher is the private implementation of [CipherService].
type aeadCipher struct{}

// NewCipherService constructs an AES-256-GCM [CipherService].
func NewCipherService() CipherService {
	return &aeadCipher{}
}

// Encrypt implements [CipherService]. A fresh nonce is drawn from the OS
// CSPRNG on every call, so encrypting the same plaintext twice yields
// different ciphertext.
func (c *aeadCipher) Encrypt(plaintext, key []byte) (EncryptedPayload, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return EncryptedPayload{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return EncryptedPayload{}, fmt.Errorf("generate nonce: %w", err)
	}

	return EncryptedPayload{
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
		Nonce:      nonce,
		Version:    PayloadVersion,
	}, nil
}

// Decrypt implements [CipherService]. A wrong key, corrupted data, or
// tampering all surface as the single ErrAuthenticationFailed; the
// underlying GCM error is deliberately not wrapped so nothing about the
// failure cause leaks to callers.
func (c *aeadCipher) Decrypt(payload EncryptedPayload, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(payload.Nonce) != gcm.NonceSize() {
		return nil, ErrAuthenticationFailed
	}

	plaintext, err := gcm.Open(nil, payload.Nonce, payload.Ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// EncryptDetails implements [CipherService].
func (c *aeadCipher) EncryptDetails(details models.ExpenseDetails, key []byte) (EncryptedPayload, error) {
	plaintext, err := json.Marshal(details)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("marshal details: %w", err)
	}

	return c.Encrypt(plaintext, key)
}

// DecryptDetails implements [CipherService]. Parsing failures after a
// successful decrypt are ErrInvalidDecryptedStructure, kept distinct from
// authentication failures for diagnostics.
func (c *aeadCipher) DecryptDetails(payload EncryptedPayload, key []byte) (models.ExpenseDetails, error) {
	plaintext, err := c.Decrypt(payload, key)
	if err != nil {
		return models.ExpenseDetails{}, err
	}

	var details models.ExpenseDetails
	if err := json.Unmarshal(plaintext, &details); err != nil {
		return models.ExpenseDetails{}, fmt.Errorf("parse details: %w", ErrInvalidDecryptedStructure)
	}
	if details.Title == "" {
		return models.ExpenseDetails{}, fmt.Errorf("missing title: %w", ErrInvalidDecryptedStructure)
	}

	return details, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key length %d: %w", len(key), ErrInvalidInput)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}

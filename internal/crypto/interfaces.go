// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package crypto

import "github.com/sora-grayscale/spliit-sub000/models"

// KeyService turns a group password into a symmetric key. The server never
// sees the password or the derived key; only the context (salt + iteration
// count) is persisted.
//
// Scheme:
//
//	ctx = GenerateContext()              (once, at password-set time)
//	key = DeriveKey(password, ctx)       (on every encrypt/decrypt)
type KeyService interface {
	// GenerateContext creates a fresh context with a random 16-byte salt
	// from the OS CSPRNG and the default iteration count.
	GenerateContext() (models.EncryptionContext, error)

	// DeriveKey derives a 256-bit key from password and ctx via
	// PBKDF2-SHA256. Deterministic: identical inputs always yield the same
	// key. Returns ErrInvalidParameters when ctx.Iterations is outside
	// [MinIterations, MaxIterations], ErrInvalidInput when the password is
	// empty or the salt is shorter than 16 bytes.
	DeriveKey(password string, ctx models.EncryptionContext) ([]byte, error)
}

// CipherService encrypts and decrypts byte payloads with AES-256-GCM.
type CipherService interface {
	// Encrypt seals plaintext under key with a fresh random 12-byte nonce.
	Encrypt(plaintext, key []byte) (EncryptedPayload, error)

	// Decrypt opens payload with key. Any tag or format failure is reported
	// as ErrAuthenticationFailed; no other detail leaks.
	Decrypt(payload EncryptedPayload, key []byte) ([]byte, error)

	// EncryptDetails JSON-encodes details and seals the result.
	EncryptDetails(details models.ExpenseDetails, key []byte) (EncryptedPayload, error)

	// DecryptDetails opens payload and parses the plaintext back into
	// ExpenseDetails, validating required fields. A payload that decrypts
	// but does not parse is ErrInvalidDecryptedStructure.
	DecryptDetails(payload EncryptedPayload, key []byte) (models.ExpenseDetails, error)
}

// VerifierService proves a typed password correct against a stored
// verification blob without the server ever learning the password.
type VerifierService interface {
	// CreateTest encrypts the canonical verification plaintext under the
	// key derived from password and ctx. Called once per group.
	CreateTest(password string, ctx models.EncryptionContext) (EncryptedPayload, error)

	// Verify returns true only if stored decrypts under the candidate
	// password's key and the plaintext matches the canonical shape. A wrong
	// password is (false, nil), never an error; errors are reserved for
	// malformed input.
	Verify(password string, ctx models.EncryptionContext, stored EncryptedPayload) (bool, error)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package models

import "time"

// EncryptionContext holds the public key-derivation parameters for one group.
// It is created once when a password is first set for the group, persisted
// alongside the ciphertext, and never modified afterwards. The salt is not a
// secret; it only ensures identical passwords derive different keys.
type EncryptionContext struct {
	// Salt is the random KDF salt, at least 16 bytes.
	Salt []byte `json:"salt"`

	// Iterations is the PBKDF2 iteration count used when the context was
	// created. It may grow across schema versions but never decreases.
	Iterations int `json:"iterations"`
}

type (
	// EncryptedField is a string alias for a serialized ciphertext blob:
	// base64url(nonce || ciphertext). The database stores it as an opaque
	// string and knows nothing about its structure.
	EncryptedField string

	// VerificationBlob is an EncryptedField holding the canonical
	// password-verification plaintext for a group. It is written once at
	// password-set time and only ever read back to test decryptability.
	VerificationBlob string
)

// GroupKeyRecord is the per-group row at the persistence boundary: the
// key-derivation context plus the verification blob.
type GroupKeyRecord struct {
	GroupID      string
	Context      EncryptionContext
	Verification VerificationBlob
	CreatedAt    time.Time
}

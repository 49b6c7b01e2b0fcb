// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package service

import (
	"context"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// PasswordService is the full lifecycle of group password protection: setting
// and verifying passwords, tracking the in-memory key session, and moving
// expense details across the encryption boundary.
//
// Everything password-shaped stays inside this service. Callers above it
// (handlers) only ever see group IDs, plaintext details, and opaque encrypted
// fields.
type PasswordService interface {
	// SetGroupPassword establishes or replaces password protection for a
	// group: it generates a fresh encryption context, persists the
	// verification blob, and opens a key session so the caller can encrypt
	// immediately. Replacing an existing password keeps the iteration count
	// from going down.
	SetGroupPassword(ctx context.Context, groupID, password string) error

	// VerifyGroupPassword tests a typed password against the group's stored
	// verification blob. A correct password opens a key session and returns
	// (true, nil); a wrong one returns (false, nil). Attempts are rate
	// limited per group and the response never returns faster than the
	// configured operation floor.
	VerifyGroupPassword(ctx context.Context, groupID, password string) (bool, error)

	// HasActivePassword reports whether the group currently has a live key
	// session.
	HasActivePassword(groupID string) bool

	// IsGroupProtected reports whether the group has password protection
	// configured at all, regardless of session state.
	IsGroupProtected(ctx context.Context, groupID string) (bool, error)

	// ClearGroupPassword drops the group's key session and cached
	// plaintexts. The persisted record is untouched; the password just has
	// to be re-entered.
	ClearGroupPassword(groupID string)

	// RemoveGroupProtection permanently deletes the group's encryption
	// record and every encrypted field, then clears all local state for it.
	RemoveGroupProtection(ctx context.Context, groupID string) error

	// EncryptField seals expense details under the group's session key.
	// Details are validated first; malformed input is ErrInvalidDataProvided.
	// Requires an active session.
	EncryptField(ctx context.Context, groupID string, details models.ExpenseDetails) (models.EncryptedField, error)

	// DecryptField opens an encrypted field back into details, going through
	// the decryption cache. A value that predates encryption is passed
	// through as a plain title. Failed decryptions come back as a fallback
	// placeholder, not an error; only rate limiting and a missing session
	// are reported as errors.
	DecryptField(ctx context.Context, groupID string, field models.EncryptedField) (models.DecryptedField, error)

	// SaveExpense encrypts details and persists the ciphertext under
	// (groupID, expenseID).
	SaveExpense(ctx context.Context, groupID, expenseID string, details models.ExpenseDetails) error

	// LoadExpense fetches the persisted ciphertext for (groupID, expenseID)
	// and decrypts it via DecryptField.
	LoadExpense(ctx context.Context, groupID, expenseID string) (models.DecryptedField, error)
}

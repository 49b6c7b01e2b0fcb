// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// GroupKeyStore is the narrow persistence boundary the crypto core consumes.
// The database only ever sees public key-derivation parameters and opaque
// ciphertext blobs; plaintext secrets and derived keys never cross this
// interface.
type GroupKeyStore interface {
	// SaveRecord writes (or overwrites on password change) the group's
	// encryption context and verification blob. Lowering the iteration
	// count of an existing record is refused with ErrIterationsDowngrade.
	SaveRecord(ctx context.Context, rec models.GroupKeyRecord) error

	// GetRecord returns the group's record, or ErrNotFound.
	GetRecord(ctx context.Context, groupID string) (models.GroupKeyRecord, error)

	// DeleteRecord removes the group's record and all its encrypted fields.
	DeleteRecord(ctx context.Context, groupID string) error

	// SaveField upserts one encrypted field value for the group.
	SaveField(ctx context.Context, groupID, fieldKey string, value models.EncryptedField) error

	// GetField returns one encrypted field value, or ErrNotFound.
	GetField(ctx context.Context, groupID, fieldKey string) (models.EncryptedField, error)
}

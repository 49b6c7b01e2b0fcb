// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// psql builds queries with PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const selectIterationsForUpdate = `SELECT iterations FROM group_encryption WHERE group_id = $1 FOR UPDATE;`

// groupKeyRepository is the PostgreSQL implementation of [GroupKeyStore].
type groupKeyRepository struct {
	db *DB
}

// NewGroupKeyRepository constructs a [GroupKeyStore] over db.
func NewGroupKeyRepository(db *DB) GroupKeyStore {
	return &groupKeyRepository{db: db}
}

// SaveRecord implements [GroupKeyStore]. The existing iteration count is
// read under a row lock so a concurrent save cannot slip a downgrade past
// the check.
func (r *groupKeyRepository) SaveRecord(ctx context.Context, rec models.GroupKeyRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save record: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var existing int
	err = tx.QueryRowContext(ctx, selectIterationsForUpdate, rec.GroupID).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First password set for this group.
	case err != nil:
		return fmt.Errorf("read existing iterations: %w", err)
	case rec.Context.Iterations < existing:
		return fmt.Errorf("group %s: %d < %d: %w", rec.GroupID, rec.Context.Iterations, existing, ErrIterationsDowngrade)
	}

	query, args, err := psql.Insert("group_encryption").
		Columns("group_id", "salt", "iterations", "verification", "created_at").
		Values(rec.GroupID, rec.Context.Salt, rec.Context.Iterations, string(rec.Verification), rec.CreatedAt).
		Suffix(`ON CONFLICT (group_id) DO UPDATE SET
			salt = EXCLUDED.salt,
			iterations = EXCLUDED.iterations,
			verification = EXCLUDED.verification,
			created_at = EXCLUDED.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save record query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save record: %w", err)
	}

	return nil
}

// GetRecord implements [GroupKeyStore].
func (r *groupKeyRepository) GetRecord(ctx context.Context, groupID string) (models.GroupKeyRecord, error) {
	query, args, err := psql.Select("group_id", "salt", "iterations", "verification", "created_at").
		From("group_encryption").
		Where(sq.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return models.GroupKeyRecord{}, fmt.Errorf("build get record query: %w", err)
	}

	var (
		rec          models.GroupKeyRecord
		verification string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.GroupID,
		&rec.Context.Salt,
		&rec.Context.Iterations,
		&verification,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupKeyRecord{}, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if err != nil {
		return models.GroupKeyRecord{}, fmt.Errorf("get record: %w", err)
	}

	rec.Verification = models.VerificationBlob(verification)
	return rec, nil
}

// DeleteRecord implements [GroupKeyStore]. Encrypted fields go with the
// record via ON DELETE CASCADE.
func (r *groupKeyRepository) DeleteRecord(ctx context.Context, groupID string) error {
	query, args, err := psql.Delete("group_encryption").
		Where(sq.Eq{"group_id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	return nil
}

// SaveField implements [GroupKeyStore]. Writing a field for a group without
// an encryption record trips the foreign key and maps to ErrNotFound.
func (r *groupKeyRepository) SaveField(ctx context.Context, groupID, fieldKey string, value models.EncryptedField) error {
	query, args, err := psql.Insert("encrypted_fields").
		Columns("group_id", "field_key", "value").
		Values(groupID, fieldKey, string(value)).
		Suffix(`ON CONFLICT (group_id, field_key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save field query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if postgresErrorCode(err) == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("group %s: %w", groupID, ErrNotFound)
		}
		return fmt.Errorf("save field: %w", err)
	}

	return nil
}

// GetField implements [GroupKeyStore].
func (r *groupKeyRepository) GetField(ctx context.Context, groupID, fieldKey string) (models.EncryptedField, error) {
	query, args, err := psql.Select("value").
		From("encrypted_fields").
		Where(sq.And{sq.Eq{"group_id": groupID}, sq.Eq{"field_key": fieldKey}}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build get field query: %w", err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("field %s/%s: %w", groupID, fieldKey, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get field: %w", err)
	}

	return models.EncryptedField(value), nil
}

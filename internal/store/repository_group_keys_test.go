package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
	"github.com/sora-grayscale/spliit-sub000/models"
)

func newTestGroupKeyRepo(t *testing.T) (*groupKeyRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	repo := &groupKeyRepository{
		db: &DB{DB: db, logger: logger.Nop()},
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func testRecord() models.GroupKeyRecord {
	return models.GroupKeyRecord{
		GroupID: "group-1",
		Context: models.EncryptionContext{
			Salt:       bytes.Repeat([]byte{0xAB}, 16),
			Iterations: 100_000,
		},
		Verification: "blob",
		CreatedAt:    time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveRecord_FreshGroup(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT iterations FROM group_encryption").
		WithArgs(rec.GroupID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO group_encryption").
		WithArgs(rec.GroupID, rec.Context.Salt, rec.Context.Iterations, string(rec.Verification), rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveRecord(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveRecord_OverwriteWithEqualIterations(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT iterations FROM group_encryption").
		WithArgs(rec.GroupID).
		WillReturnRows(sqlmock.NewRows([]string{"iterations"}).AddRow(100_000))
	mock.ExpectExec("INSERT INTO group_encryption").
		WithArgs(rec.GroupID, rec.Context.Salt, rec.Context.Iterations, string(rec.Verification), rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveRecord(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveRecord_RefusesIterationsDowngrade(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	rec := testRecord()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT iterations FROM group_encryption").
		WithArgs(rec.GroupID).
		WillReturnRows(sqlmock.NewRows([]string{"iterations"}).AddRow(200_000))
	mock.ExpectRollback()

	err := repo.SaveRecord(context.Background(), rec)
	if !errors.Is(err, ErrIterationsDowngrade) {
		t.Fatalf("expected ErrIterationsDowngrade, got %v", err)
	}
}

func TestGetRecord_Success(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	want := testRecord()

	rows := sqlmock.
		NewRows([]string{"group_id", "salt", "iterations", "verification", "created_at"}).
		AddRow(want.GroupID, want.Context.Salt, want.Context.Iterations, string(want.Verification), want.CreatedAt)

	mock.ExpectQuery("SELECT group_id, salt, iterations, verification, created_at FROM group_encryption").
		WithArgs(want.GroupID).
		WillReturnRows(rows)

	got, err := repo.GetRecord(context.Background(), want.GroupID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.GroupID != want.GroupID {
		t.Errorf("expected group %s, got %s", want.GroupID, got.GroupID)
	}
	if got.Context.Iterations != want.Context.Iterations {
		t.Errorf("expected iterations %d, got %d", want.Context.Iterations, got.Context.Iterations)
	}
	if !bytes.Equal(got.Context.Salt, want.Context.Salt) {
		t.Errorf("salt mismatch")
	}
	if got.Verification != want.Verification {
		t.Errorf("expected verification %q, got %q", want.Verification, got.Verification)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT group_id, salt, iterations, verification, created_at FROM group_encryption").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRecord(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM group_encryption").
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteRecord(context.Background(), "group-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveField_Success(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO encrypted_fields").
		WithArgs("group-1", "expense-42:title", "ciphertext-blob").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveField(context.Background(), "group-1", "expense-42:title", "ciphertext-blob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSaveField_MissingGroupMapsToNotFound(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO encrypted_fields").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	err := repo.SaveField(context.Background(), "no-such-group", "k", "v")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetField(t *testing.T) {
	repo, mock, db := newTestGroupKeyRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM encrypted_fields").
		WithArgs("group-1", "expense-42:title").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("ciphertext-blob"))

	got, err := repo.GetField(context.Background(), "group-1", "expense-42:title")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ciphertext-blob" {
		t.Errorf("expected ciphertext-blob, got %s", got)
	}

	mock.ExpectQuery("SELECT value FROM encrypted_fields").
		WithArgs("group-1", "missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetField(context.Background(), "group-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

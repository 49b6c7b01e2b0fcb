// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sora-grayscale/spliit-sub000/internal/logger"
)

const createLocalStoreTable = `CREATE TABLE IF NOT EXISTS local_store (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// sqliteKV persists protected records in a local SQLite file.
type sqliteKV struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteKV opens (creating if necessary) the SQLite database at path and
// ensures the backing table exists.
func NewSQLiteKV(ctx context.Context, path string, log *logger.Logger) (KV, error) {
	if err := createLocalDBFileIfNotExists(path); err != nil {
		log.Err(err).Str("func", "NewSQLiteKV").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteKV").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	if err := conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteKV").Msg("error connecting database (ping)")
		return nil, err
	}

	if _, err := conn.ExecContext(ctx, createLocalStoreTable); err != nil {
		log.Err(err).Str("func", "NewSQLiteKV").Msg("error creating local store table")
		return nil, fmt.Errorf("error creating local store table: %w", err)
	}

	return &sqliteKV{db: conn, log: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

func (s *sqliteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_store WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query local store: %w", err)
	}

	return value, true, nil
}

func (s *sqliteKV) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO local_store (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write local store: %w", err)
	}

	return nil
}

func (s *sqliteKV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM local_store WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete from local store: %w", err)
	}

	return nil
}

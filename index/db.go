/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// DB wraps a SQLite connection to the relational index. Grounded on
// original_source/src/db.rs::Database, adapted from groundwave's
// connection-pool idiom (db/db.go's package-level Init/GetPool/Close) to a
// struct-held *sql.DB, since SQLite is single-file rather than a pooled
// network service.
type DB struct {
	conn *sql.DB
}

// Open creates the parent directory for path if needed, opens a
// pure-Go SQLite connection, applies the WAL/synchronous/foreign_keys
// pragmas from original_source/src/db.rs::setup, and runs migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	// SQLite only tolerates one writer; keep the pool to one connection so
	// WAL/foreign_keys pragmas and transactions stay consistent.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.setup(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) setup(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.conn.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", p, err)
		}
	}
	if err := syncSchema(ctx, db.conn); err != nil {
		return err
	}
	return nil
}

// Conn returns the underlying database/sql handle, for callers (the
// `migrate` CLI subcommands) that drive goose directly rather than through
// DB's own methods.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// ResetSchema drops and recreates every table, for the `migrate reset`
// subcommand. Grounded on original_source/src/db.rs::reset_schema.
func (db *DB) ResetSchema(ctx context.Context) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reset transaction: %w", err)
	}
	defer tx.Rollback()

	drops := []string{
		"DROP TABLE IF EXISTS sync_metadata",
		"DROP TABLE IF EXISTS simhashes",
		"DROP TABLE IF EXISTS props",
		"DROP TABLE IF EXISTS items",
		"DROP TABLE IF EXISTS goose_db_version",
	}
	for _, stmt := range drops {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset transaction: %w", err)
	}

	return db.setup(ctx)
}

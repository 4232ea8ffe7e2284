/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	// Registers the Go-function backfill migration with goose via its
	// package init().
	_ "github.com/verdigris12/rldx-sub000/index/migrations"
	// Register the pure-Go SQLite driver with database/sql for goose
	// migrations. Grounded on
	// other_examples/342440df_agentic-research-mache's direct
	// `_ "modernc.org/sqlite"` use.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// GetEmbeddedMigrations returns the embedded migrations filesystem, for use
// by the `migrate` CLI command.
func GetEmbeddedMigrations() embed.FS {
	return embedMigrations
}

// syncSchema runs goose migrations against db, then the idempotent
// column/backfill pass that original_source/src/db.rs::ensure_norm_columns/
// backfill_norm_columns/backfill_simhashes performs on every open, carried
// here as a second goose Go-function migration so the framework remains the
// single source of migration state.
func syncSchema(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/index"
)

// CmdMigrate exposes the index's goose-driven schema as explicit
// subcommands, adapted from humaidq-groundwave/src/cmd/migrate.go
// (there driven against Postgres; here against the sqlite3 index).
var CmdMigrate = &cli.Command{
	Name:  "migrate",
	Usage: "database migration commands",
	Flags: []cli.Flag{ConfigFlag},
	Commands: []*cli.Command{
		{Name: "up", Usage: "run all pending migrations", Action: migrateUp},
		{Name: "down", Usage: "roll back the last migration", Action: migrateDown},
		{Name: "status", Usage: "show migration status", Action: migrateStatus},
		{Name: "version", Usage: "print the current schema version", Action: migrateVersion},
		{Name: "reset", Usage: "drop and recreate the schema from scratch", Action: migrateReset},
	},
}

func openRawDB(ctx context.Context, cmd *cli.Command) (*index.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return index.Open(ctx, cfg.DBPath)
}

// withGooseDB opens the index (which already applies migrations on open)
// and points goose at the same embedded migration set, for subcommands
// that report on or drive schema state directly.
func withGooseDB(ctx context.Context, cmd *cli.Command) (*index.DB, error) {
	db, err := openRawDB(ctx, cmd)
	if err != nil {
		return nil, err
	}
	goose.SetBaseFS(index.GetEmbeddedMigrations())
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return db, nil
}

func migrateUp(ctx context.Context, cmd *cli.Command) error {
	db, err := withGooseDB(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db.Conn(), "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	fmt.Println("Migrations completed successfully")
	return nil
}

func migrateDown(ctx context.Context, cmd *cli.Command) error {
	db, err := withGooseDB(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.DownContext(ctx, db.Conn(), "migrations"); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	fmt.Println("Migration rolled back successfully")
	return nil
}

func migrateStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := withGooseDB(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.StatusContext(ctx, db.Conn(), "migrations"); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func migrateVersion(ctx context.Context, cmd *cli.Command) error {
	db, err := withGooseDB(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := goose.GetDBVersion(db.Conn())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	fmt.Printf("Schema version: %d\n", version)
	return nil
}

func migrateReset(ctx context.Context, cmd *cli.Command) error {
	db, err := openRawDB(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ResetSchema(ctx); err != nil {
		return fmt.Errorf("failed to reset schema: %w", err)
	}
	fmt.Println("Schema reset successfully")
	return nil
}

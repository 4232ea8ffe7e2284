/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package migrations holds goose Go-function migrations that can't be
// expressed as pure SQL. Grounded on
// original_source/src/db.rs::ensure_norm_columns/backfill_norm_columns/
// backfill_simhashes: on a database created before the normalized-column
// schema existed, this migration adds the missing columns and backfills
// them, idempotently, using the same column-existence-check-then-ALTER
// pattern as the original.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/verdigris12/rldx-sub000/simhash"
	"github.com/verdigris12/rldx-sub000/translit"
)

func init() {
	goose.AddMigrationContext(upBackfillNormColumns, downBackfillNormColumns)
}

func upBackfillNormColumns(ctx context.Context, tx *sql.Tx) error {
	if err := ensureColumn(ctx, tx, "items", "fn_norm", "TEXT"); err != nil {
		return err
	}
	if err := ensureColumn(ctx, tx, "items", "fn_simhash", "INTEGER"); err != nil {
		return err
	}
	if err := ensureColumn(ctx, tx, "props", "value_norm", "TEXT"); err != nil {
		return err
	}

	if err := backfillItemNorms(ctx, tx); err != nil {
		return err
	}
	if err := backfillPropNorms(ctx, tx); err != nil {
		return err
	}
	if err := backfillSimhashes(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_items_fn_norm ON items(fn_norm)`); err != nil {
		return fmt.Errorf("failed to create idx_items_fn_norm: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_props_value_norm ON props(value_norm)`); err != nil {
		return fmt.Errorf("failed to create idx_props_value_norm: %w", err)
	}

	return nil
}

func downBackfillNormColumns(_ context.Context, _ *sql.Tx) error {
	// Columns are additive and harmless to leave in place; no-op down.
	return nil
}

func ensureColumn(ctx context.Context, tx *sql.Tx, table, column, sqlType string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, sqlType)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}
	return nil
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return false, err
	}
	values := make([]any, len(cols))
	scanTargets := make([]any, len(cols))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return false, err
		}
		// PRAGMA table_info columns are: cid, name, type, notnull, dflt_value, pk
		if name, ok := values[1].([]byte); ok && string(name) == column {
			return true, nil
		}
		if name, ok := values[1].(string); ok && name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func backfillItemNorms(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT uuid, fn FROM items WHERE fn_norm IS NULL OR fn_norm = '' OR fn_simhash IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to select items for norm backfill: %w", err)
	}
	type pending struct{ uuid, fn string }
	var items []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.uuid, &p.fn); err != nil {
			rows.Close()
			return err
		}
		items = append(items, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE items SET fn_norm = ?, fn_simhash = ? WHERE uuid = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range items {
		norm := translit.Normalize(p.fn)
		hash := simhash.SimHash(norm)
		if _, err := stmt.ExecContext(ctx, norm, int64(hash), p.uuid); err != nil {
			return fmt.Errorf("failed to backfill item %s: %w", p.uuid, err)
		}
	}
	return nil
}

func backfillPropNorms(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT uuid, field, seq, value FROM props WHERE value_norm IS NULL OR value_norm = ''`)
	if err != nil {
		return fmt.Errorf("failed to select props for norm backfill: %w", err)
	}
	type pending struct {
		uuid, field, value string
		seq                int64
	}
	var props []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.uuid, &p.field, &p.seq, &p.value); err != nil {
			rows.Close()
			return err
		}
		props = append(props, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`UPDATE props SET value_norm = ? WHERE uuid = ? AND field = ? AND seq = ? AND value = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range props {
		norm := translit.Normalize(p.value)
		if _, err := stmt.ExecContext(ctx, norm, p.uuid, p.field, p.seq, p.value); err != nil {
			return fmt.Errorf("failed to backfill prop %s/%s: %w", p.uuid, p.field, err)
		}
	}
	return nil
}

func backfillSimhashes(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM simhashes`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count simhashes: %w", err)
	}
	if count > 0 {
		return nil
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO simhashes (uuid, simhash, source, value_norm) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	fnRows, err := tx.QueryContext(ctx,
		`SELECT uuid, fn_norm, fn_simhash FROM items WHERE fn_norm IS NOT NULL AND fn_simhash IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("failed to select items for simhash backfill: %w", err)
	}
	for fnRows.Next() {
		var uuid, norm string
		var hash int64
		if err := fnRows.Scan(&uuid, &norm, &hash); err != nil {
			fnRows.Close()
			return err
		}
		if _, err := insert.ExecContext(ctx, uuid, hash, "FN", norm); err != nil {
			fnRows.Close()
			return fmt.Errorf("failed to insert FN simhash for %s: %w", uuid, err)
		}
	}
	fnRows.Close()
	if err := fnRows.Err(); err != nil {
		return err
	}

	nickRows, err := tx.QueryContext(ctx,
		`SELECT uuid, value_norm FROM props WHERE field = 'NICKNAME' AND value_norm IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("failed to select nicknames for simhash backfill: %w", err)
	}
	for nickRows.Next() {
		var uuid, norm string
		if err := nickRows.Scan(&uuid, &norm); err != nil {
			nickRows.Close()
			return err
		}
		hash := simhash.SimHash(norm)
		if _, err := insert.ExecContext(ctx, uuid, int64(hash), "NICKNAME", norm); err != nil {
			nickRows.Close()
			return fmt.Errorf("failed to insert NICKNAME simhash for %s: %w", uuid, err)
		}
	}
	nickRows.Close()
	return nickRows.Err()
}

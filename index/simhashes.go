/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"fmt"

	"github.com/verdigris12/rldx-sub000/simhash"
)

// ListAllSimHashes returns every (path, display FN, normalized value,
// simhash, source) row across the whole index, joined against items for
// the display FN and path a merge candidate should show the user. Used to
// build the in-memory BK-tree once per import run. Grounded on
// original_source/src/import/simhash_index.rs::SimHashIndex::new.
func (db *DB) ListAllSimHashes(ctx context.Context) ([]simhash.Entry, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.path, i.fn, s.value_norm, s.simhash, s.source
		FROM simhashes s
		JOIN items i ON i.uuid = s.uuid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list simhashes: %w", err)
	}
	defer rows.Close()

	var out []simhash.Entry
	for rows.Next() {
		var path, fn, valueNorm, source string
		var hash int64
		if err := rows.Scan(&path, &fn, &valueNorm, &hash, &source); err != nil {
			return nil, err
		}
		out = append(out, simHashEntriesOf(path, fn, valueNorm, uint64(hash), source))
	}
	return out, rows.Err()
}

// EmailExists reports whether any prop row holds email (case-sensitive,
// matching the original's exact-match dedup check during import).
func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM props WHERE field = 'EMAIL' AND value = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/verdigris12/rldx-sub000/simhash"
	"github.com/verdigris12/rldx-sub000/translit"
)

// Upsert writes item and its props, replacing any previous rows for the
// same UUID, and refreshes the simhashes table for FN and every NICKNAME
// prop. Grounded on original_source/src/db.rs::upsert.
func (db *DB) Upsert(ctx context.Context, item IndexedItem, props []IndexedProp) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer tx.Rollback()

	fnNorm := translit.Normalize(item.FN)
	fnSimhash := simhash.SimHash(fnNorm)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (uuid, path, fn, fn_norm, fn_simhash, rev, has_photo, has_logo, sha1, mtime, lang_pref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			path=excluded.path,
			fn=excluded.fn,
			fn_norm=excluded.fn_norm,
			fn_simhash=excluded.fn_simhash,
			rev=excluded.rev,
			has_photo=excluded.has_photo,
			has_logo=excluded.has_logo,
			sha1=excluded.sha1,
			mtime=excluded.mtime,
			lang_pref=excluded.lang_pref
	`,
		item.UUID, item.Path, item.FN, fnNorm, int64(fnSimhash), item.Rev,
		boolToInt(item.HasPhoto), boolToInt(item.HasLogo), item.SHA1[:], item.MTime, nullableString(item.LangPref),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item %s: %w", item.UUID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM props WHERE uuid = ?`, item.UUID); err != nil {
		return fmt.Errorf("failed to clear props for %s: %w", item.UUID, err)
	}

	insertProp, err := tx.PrepareContext(ctx, `
		INSERT INTO props (uuid, fn, field, value, value_norm, params, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer insertProp.Close()

	for _, p := range props {
		valueNorm := translit.Normalize(p.Value)
		if _, err := insertProp.ExecContext(ctx, item.UUID, item.FN, p.Field, p.Value, valueNorm, p.Params, p.Seq); err != nil {
			return fmt.Errorf("failed to insert prop %s/%s: %w", item.UUID, p.Field, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM simhashes WHERE uuid = ?`, item.UUID); err != nil {
		return fmt.Errorf("failed to clear simhashes for %s: %w", item.UUID, err)
	}

	insertHash, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO simhashes (uuid, simhash, source, value_norm) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer insertHash.Close()

	if _, err := insertHash.ExecContext(ctx, item.UUID, int64(fnSimhash), simhash.SourceFN.String(), fnNorm); err != nil {
		return fmt.Errorf("failed to insert FN simhash for %s: %w", item.UUID, err)
	}
	for _, p := range props {
		if p.Field != "NICKNAME" {
			continue
		}
		nickNorm := translit.Normalize(p.Value)
		nickHash := simhash.SimHash(nickNorm)
		if _, err := insertHash.ExecContext(ctx, item.UUID, int64(nickHash), simhash.SourceNickname.String(), nickNorm); err != nil {
			return fmt.Errorf("failed to insert NICKNAME simhash for %s: %w", item.UUID, err)
		}
	}

	return tx.Commit()
}

// StoredItems returns every indexed (path, sha1) pair, keyed by path, for
// deciding which vdir files have changed since last index.
func (db *DB) StoredItems(ctx context.Context) (map[string]StoredItem, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT path, sha1 FROM items`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]StoredItem)
	for rows.Next() {
		var path string
		var sha1 []byte
		if err := rows.Scan(&path, &sha1); err != nil {
			return nil, err
		}
		var arr [20]byte
		copy(arr[:], sha1)
		out[path] = StoredItem{Path: path, SHA1: arr}
	}
	return out, rows.Err()
}

// RemoveMissing deletes every indexed item whose path is not in
// existingPaths.
func (db *DB) RemoveMissing(ctx context.Context, existingPaths map[string]bool) error {
	rows, err := db.conn.QueryContext(ctx, `SELECT path FROM items`)
	if err != nil {
		return fmt.Errorf("failed to list item paths: %w", err)
	}
	var toDelete []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return err
		}
		if !existingPaths[path] {
			toDelete = append(toDelete, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, path := range toDelete {
		if _, err := db.conn.ExecContext(ctx, `DELETE FROM items WHERE path = ?`, path); err != nil {
			return fmt.Errorf("failed to remove missing item %s: %w", path, err)
		}
	}
	return nil
}

// DeleteItemsByPaths removes the indexed item (and its props/simhashes via
// ON DELETE CASCADE) for each given path. Grounded on
// original_source/src/db.rs::delete_items_by_paths, used by the sync
// engine when a remote-deleted contact's local file is removed.
func (db *DB) DeleteItemsByPaths(ctx context.Context, paths []string) error {
	for _, path := range paths {
		if _, err := db.conn.ExecContext(ctx, `DELETE FROM items WHERE path = ?`, path); err != nil {
			return fmt.Errorf("failed to delete item at %s: %w", path, err)
		}
	}
	return nil
}

// ListContacts returns every contact matching filter (FN, NICKNAME, ORG,
// EMAIL, or TEL substring, case-insensitively after normalization), sorted
// by FN. An empty filter returns every contact.
func (db *DB) ListContacts(ctx context.Context, filter string) ([]ContactListEntry, error) {
	sqlText := `SELECT uuid, fn, path,
			(SELECT value FROM props p WHERE p.uuid = items.uuid AND p.field = 'ORG' ORDER BY seq LIMIT 1),
			(SELECT value FROM props p WHERE p.uuid = items.uuid AND p.field = 'KIND' ORDER BY seq LIMIT 1)
		FROM items`

	var args []any
	if filter != "" {
		pattern := translit.LikePattern(translit.Normalize(filter))
		sqlText += ` WHERE fn_norm LIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM props WHERE props.uuid = items.uuid
				AND props.field IN ('NICKNAME','ORG','EMAIL','TEL')
				AND props.value_norm LIKE ? ESCAPE '\'
		)`
		args = append(args, pattern, pattern)
	}
	sqlText += ` ORDER BY fn COLLATE NOCASE`

	rows, err := db.conn.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var out []ContactListEntry
	for rows.Next() {
		var e ContactListEntry
		var org, kind sql.NullString
		if err := rows.Scan(&e.UUID, &e.DisplayFN, &e.Path, &org, &kind); err != nil {
			return nil, err
		}
		e.PrimaryOrg = org.String
		e.Kind = kind.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetProps returns every prop belonging to uuid, ordered by field then seq.
func (db *DB) GetProps(ctx context.Context, uuid string) ([]PropRow, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT field, value, params, seq FROM props WHERE uuid = ? ORDER BY field, seq`, uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to get props for %s: %w", uuid, err)
	}
	defer rows.Close()

	var out []PropRow
	for rows.Next() {
		var p PropRow
		if err := rows.Scan(&p.Field, &p.Value, &p.Params, &p.Seq); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// QueryEmails returns abook-compatible (email, FN, notes) rows for every
// contact matching filter that has a primary email address. Grounded on
// original_source/src/db.rs::query_emails.
func (db *DB) QueryEmails(ctx context.Context, filter string) ([]QueryResult, error) {
	normalized := translit.NormalizeQuery(filter)
	pattern := "%"
	if normalized != "" {
		pattern = translit.LikePattern(normalized)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			i.fn,
			(SELECT p.value FROM props p WHERE p.uuid = i.uuid AND p.field = 'EMAIL' ORDER BY p.seq LIMIT 1) AS email,
			(SELECT p.value FROM props p WHERE p.uuid = i.uuid AND p.field = 'NOTE' ORDER BY p.seq LIMIT 1) AS notes
		FROM items i
		WHERE i.fn_norm LIKE ? ESCAPE '\'
		   OR EXISTS (
			   SELECT 1 FROM props WHERE props.uuid = i.uuid
				 AND props.field IN ('NICKNAME', 'ORG', 'EMAIL', 'TEL')
				 AND props.value_norm LIKE ? ESCAPE '\'
		   )
		ORDER BY i.fn COLLATE NOCASE
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer rows.Close()

	var out []QueryResult
	for rows.Next() {
		var displayFN string
		var email, notes sql.NullString
		if err := rows.Scan(&displayFN, &email, &notes); err != nil {
			return nil, err
		}
		if !email.Valid || email.String == "" {
			continue
		}
		out = append(out, QueryResult{Email: email.String, DisplayFN: displayFN, Notes: notes.String})
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

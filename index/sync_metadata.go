/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"database/sql"
	"fmt"
)

// SyncMetadata records, per (contact path, remote name), the last ETag and
// sync timestamp the sync engine observed, for conflict detection on the
// next run. Grounded on original_source/src/sync.rs's use of
// crate::db::SyncMetadata / get_sync_metadata_for_remote / upsert_sync_metadata /
// delete_sync_metadata.
type SyncMetadata struct {
	ContactPath   string
	RemoteName    string
	RemoteHref    string
	RemoteETag    sql.NullString
	LastSynced    sql.NullInt64
	LocalModified bool
}

// GetSyncMetadataForRemote returns every sync_metadata row for remoteName.
func (db *DB) GetSyncMetadataForRemote(ctx context.Context, remoteName string) ([]SyncMetadata, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT contact_path, remote_name, remote_href, remote_etag, last_synced, local_modified
		FROM sync_metadata WHERE remote_name = ?
	`, remoteName)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync metadata for %s: %w", remoteName, err)
	}
	defer rows.Close()

	var out []SyncMetadata
	for rows.Next() {
		var m SyncMetadata
		var localModified int
		if err := rows.Scan(&m.ContactPath, &m.RemoteName, &m.RemoteHref, &m.RemoteETag, &m.LastSynced, &localModified); err != nil {
			return nil, err
		}
		m.LocalModified = localModified != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertSyncMetadata writes m, replacing any prior row for the same
// (contact path, remote name).
func (db *DB) UpsertSyncMetadata(ctx context.Context, m SyncMetadata) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sync_metadata (contact_path, remote_name, remote_href, remote_etag, last_synced, local_modified)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(contact_path, remote_name) DO UPDATE SET
			remote_href=excluded.remote_href,
			remote_etag=excluded.remote_etag,
			last_synced=excluded.last_synced,
			local_modified=excluded.local_modified
	`, m.ContactPath, m.RemoteName, m.RemoteHref, m.RemoteETag, m.LastSynced, boolToInt(m.LocalModified))
	if err != nil {
		return fmt.Errorf("failed to upsert sync metadata for %s/%s: %w", m.ContactPath, m.RemoteName, err)
	}
	return nil
}

// DeleteSyncMetadata removes the sync_metadata row for (contactPath,
// remoteName), if any.
func (db *DB) DeleteSyncMetadata(ctx context.Context, contactPath, remoteName string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM sync_metadata WHERE contact_path = ? AND remote_name = ?`, contactPath, remoteName)
	if err != nil {
		return fmt.Errorf("failed to delete sync metadata for %s/%s: %w", contactPath, remoteName, err)
	}
	return nil
}

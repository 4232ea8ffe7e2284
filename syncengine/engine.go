/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package syncengine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"

	"github.com/verdigris12/rldx-sub000/config"
	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/logging"
	"github.com/verdigris12/rldx-sub000/vcardio"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// fetchBatchSize bounds how many contacts are requested per multiget
// REPORT, matching original_source/src/sync.rs::pull_changes's batch_size.
const fetchBatchSize = 50

// Engine synchronizes one configured remote's address book against a
// local vdir directory. Grounded on
// original_source/src/sync.rs::SyncEngine.
type Engine struct {
	cfg       *config.Config
	remoteCfg config.RemoteConfig
	db        *index.DB
	vdir      string
	dryRun    bool
}

// New builds an Engine for remoteCfg, rooted at cfg.Vdir joined with
// remoteCfg.Book when set.
func New(cfg *config.Config, remoteCfg config.RemoteConfig, db *index.DB, dryRun bool) *Engine {
	dir := cfg.Vdir
	if remoteCfg.Book != "" {
		dir = filepath.Join(cfg.Vdir, remoteCfg.Book)
	}
	return &Engine{cfg: cfg, remoteCfg: remoteCfg, db: db, vdir: dir, dryRun: dryRun}
}

// Sync pulls remote changes down, then (unless the remote is configured
// pull-only) pushes local changes up. Grounded on
// original_source/src/sync.rs::SyncEngine::sync.
func (e *Engine) Sync(ctx context.Context, remote Remote) (Result, error) {
	if remote == nil {
		return Result{}, ErrRemoteRequired
	}
	log := logging.Logger(logging.SourceSync)

	var result Result

	if !e.dryRun {
		if err := os.MkdirAll(e.vdir, 0o755); err != nil {
			return result, fmt.Errorf("failed to create directory %s: %w", e.vdir, err)
		}
	}

	log.Info("pulling changes from remote", "remote", e.remoteCfg.Name)
	if err := e.pullChanges(ctx, remote, &result); err != nil {
		return result, err
	}

	if !e.remoteCfg.PullOnly {
		log.Info("pushing local changes to remote", "remote", e.remoteCfg.Name)
		if err := e.pushChanges(ctx, remote, &result); err != nil {
			return result, err
		}
	}

	log.Info("sync complete", "downloaded", result.Downloaded, "uploaded", result.Uploaded,
		"deleted_local", result.DeletedLocal, "deleted_remote", result.DeletedRemote, "errors", len(result.Errors))
	return result, nil
}

func (e *Engine) pullChanges(ctx context.Context, remote Remote, result *Result) error {
	remoteContacts, err := remote.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remote contacts: %w", err)
	}

	metadataRows, err := e.db.GetSyncMetadataForRemote(ctx, e.remoteCfg.Name)
	if err != nil {
		return err
	}
	metadataByHref := make(map[string]index.SyncMetadata, len(metadataRows))
	for _, m := range metadataRows {
		metadataByHref[m.RemoteHref] = m
	}

	var toDownload []string
	remoteHrefs := make(map[string]bool, len(remoteContacts))
	for _, rc := range remoteContacts {
		remoteHrefs[rc.Path] = true

		meta, tracked := metadataByHref[rc.Path]
		if !tracked {
			toDownload = append(toDownload, rc.Path)
			continue
		}
		if etagChanged(rc.ETag, meta.RemoteETag) {
			toDownload = append(toDownload, rc.Path)
		}
	}

	for _, batch := range chunk(toDownload, fetchBatchSize) {
		fetched, err := remote.FetchMany(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to fetch contacts: %w", err)
		}

		for _, rc := range fetched {
			_, isNew := metadataByHref[rc.Path]
			isNew = !isNew

			if e.dryRun {
				verb := "download"
				if !isNew {
					verb = "update"
				}
				logging.Logger(logging.SourceSync).Info("dry-run", "action", verb, "href", rc.Path)
				continue
			}

			if err := e.saveContactLocally(ctx, rc, metadataByHref); err != nil {
				result.Errors = append(result.Errors, Error{Path: rc.Path, Message: fmt.Sprintf("failed to save: %v", err)})
				continue
			}
			result.Downloaded++
		}
	}

	for href, meta := range metadataByHref {
		if remoteHrefs[href] {
			continue
		}

		if e.dryRun {
			logging.Logger(logging.SourceSync).Info("dry-run", "action", "delete-local", "path", meta.ContactPath)
			continue
		}

		if meta.LocalModified && e.conflictPreference() == "ours" {
			// Keep the local copy; the push phase re-uploads it.
			continue
		}

		if _, err := os.Stat(meta.ContactPath); err == nil {
			if err := os.Remove(meta.ContactPath); err != nil {
				result.Errors = append(result.Errors, Error{Path: meta.ContactPath, Message: fmt.Sprintf("failed to delete: %v", err)})
				continue
			}
		}

		if err := e.db.DeleteSyncMetadata(ctx, meta.ContactPath, e.remoteCfg.Name); err != nil {
			return err
		}
		if err := e.db.DeleteItemsByPaths(ctx, []string{meta.ContactPath}); err != nil {
			return err
		}
		result.DeletedLocal++
	}

	return nil
}

func (e *Engine) pushChanges(ctx context.Context, remote Remote, result *Result) error {
	localFiles, err := vdir.ListVCFFiles(e.vdir)
	if err != nil {
		return err
	}

	metadataRows, err := e.db.GetSyncMetadataForRemote(ctx, e.remoteCfg.Name)
	if err != nil {
		return err
	}
	metadataByPath := make(map[string]index.SyncMetadata, len(metadataRows))
	for _, m := range metadataRows {
		metadataByPath[m.ContactPath] = m
	}

	type upload struct {
		path string
		href string // "" means create new
	}
	var toUpload []upload

	for _, path := range localFiles {
		meta, tracked := metadataByPath[path]
		if !tracked {
			toUpload = append(toUpload, upload{path: path})
			continue
		}

		modified, err := e.fileModifiedSince(path, meta.LastSynced)
		if err != nil {
			return err
		}
		if meta.LocalModified || modified {
			toUpload = append(toUpload, upload{path: path, href: meta.RemoteHref})
		}
	}

	for _, u := range toUpload {
		if e.dryRun {
			verb := "upload new"
			if u.href != "" {
				verb = "update"
			}
			logging.Logger(logging.SourceSync).Info("dry-run", "action", verb, "path", u.path)
			continue
		}

		data, err := os.ReadFile(u.path)
		if err != nil {
			result.Errors = append(result.Errors, Error{Path: u.path, Message: fmt.Sprintf("failed to read: %v", err)})
			continue
		}

		card, err := vcardio.DecodeCard(data)
		if err != nil {
			result.Errors = append(result.Errors, Error{Path: u.path, Message: fmt.Sprintf("failed to decode: %v", err)})
			continue
		}

		href := u.href
		if href == "" {
			href = e.remoteHrefFor(card)
		}

		etag, err := remote.Put(ctx, href, card)
		if err != nil {
			result.Errors = append(result.Errors, Error{Path: u.path, Message: fmt.Sprintf("failed to upload: %v", err)})
			continue
		}

		now := time.Now().Unix()
		if err := e.db.UpsertSyncMetadata(ctx, index.SyncMetadata{
			ContactPath:   u.path,
			RemoteName:    e.remoteCfg.Name,
			RemoteHref:    href,
			RemoteETag:    nullableString(etag),
			LastSynced:    sql.NullInt64{Int64: now, Valid: true},
			LocalModified: false,
		}); err != nil {
			return err
		}
		result.Uploaded++
	}

	existing := make(map[string]bool, len(localFiles))
	for _, f := range localFiles {
		existing[f] = true
	}

	for path, meta := range metadataByPath {
		if existing[path] {
			continue
		}

		if e.dryRun {
			logging.Logger(logging.SourceSync).Info("dry-run", "action", "delete-remote", "href", meta.RemoteHref)
			continue
		}

		if err := remote.Delete(ctx, meta.RemoteHref); err != nil {
			result.Errors = append(result.Errors, Error{Path: meta.RemoteHref, Message: fmt.Sprintf("failed to delete from remote: %v", err)})
			continue
		}

		if err := e.db.DeleteSyncMetadata(ctx, path, e.remoteCfg.Name); err != nil {
			return err
		}
		result.DeletedRemote++
	}

	return nil
}

// saveContactLocally writes a freshly-downloaded remote contact to disk,
// reusing its previously assigned local path when one is already tracked
// for that href, and assigning a fresh UUID-derived filename otherwise.
// Grounded on original_source/src/sync.rs::save_contact_locally.
func (e *Engine) saveContactLocally(ctx context.Context, rc RemoteContact, metadataByHref map[string]index.SyncMetadata) error {
	var localPath string
	if meta, ok := metadataByHref[rc.Path]; ok {
		localPath = meta.ContactPath
	} else {
		id, err := vcardio.EnsureUUIDUID(rc.Card)
		if err != nil {
			return err
		}
		used, err := vdir.ExistingStems(e.vdir)
		if err != nil {
			return err
		}
		stem := vdir.SelectFilename(id, used, "")
		localPath = vdir.TargetPath(e.vdir, stem)
	}

	encoded, err := vcardio.EncodeCard(rc.Card)
	if err != nil {
		return err
	}
	if err := vdir.WriteAtomic(localPath, encoded); err != nil {
		return err
	}

	return e.db.UpsertSyncMetadata(ctx, index.SyncMetadata{
		ContactPath:   localPath,
		RemoteName:    e.remoteCfg.Name,
		RemoteHref:    rc.Path,
		RemoteETag:    nullableString(rc.ETag),
		LastSynced:    sql.NullInt64{Int64: time.Now().Unix(), Valid: true},
		LocalModified: false,
	})
}

func (e *Engine) fileModifiedSince(path string, lastSynced sql.NullInt64) (bool, error) {
	if !lastSynced.Valid {
		return true, nil
	}
	state, err := vdir.ComputeFileState(path)
	if err != nil {
		return false, err
	}
	return state.MTime > lastSynced.Int64, nil
}

func (e *Engine) conflictPreference() string {
	return e.cfg.RemoteConflictPreference(e.remoteCfg.Name)
}

// remoteHrefFor derives a new remote path for a contact not yet uploaded,
// using its UID (or a freshly generated one) as the filename.
func (e *Engine) remoteHrefFor(card vcard.Card) string {
	id, err := vcardio.EnsureUUIDUID(card)
	if err != nil {
		return uuid.New().String() + ".vcf"
	}
	return id.String() + ".vcf"
}

func etagChanged(newETag string, old sql.NullString) bool {
	if newETag == "" && !old.Valid {
		return false
	}
	if newETag == "" || !old.Valid {
		return true
	}
	return newETag != old.String
}

func chunk(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	var out [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

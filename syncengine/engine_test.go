/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package syncengine

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/verdigris12/rldx-sub000/config"
	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/vcardio"
	"github.com/verdigris12/rldx-sub000/vdir"
)

func newTestCard(fn string) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldFormattedName, fn)
	return card
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Vdir:           t.TempDir(),
		ConflictPrefer: "ours",
		Remotes:        map[string]config.RemoteConfig{},
	}
}

func newTestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(context.Background(), filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func remoteCfg(name string) config.RemoteConfig {
	return config.RemoteConfig{Name: name, URL: "https://example.invalid/dav", ConflictPrefer: "ours"}
}

func TestSyncDownloadsNewRemoteContact(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != 1 {
		t.Fatalf("expected 1 download, got %+v", result)
	}

	files, err := vdir.ListVCFFiles(cfg.Vdir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one local vcf file, got %v", files)
	}

	metas, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 || metas[0].RemoteHref != "alice.vcf" || metas[0].RemoteETag.String != "etag-1" {
		t.Fatalf("unexpected sync metadata: %+v", metas)
	}
}

func TestSyncSkipsDownloadWhenETagUnchanged(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != 0 {
		t.Fatalf("expected no re-download on unchanged etag, got %+v", result)
	}
}

func TestSyncRedownloadsWhenETagChanges(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	remote.seed("alice.vcf", newTestCard("Alice Updated"), "etag-2")

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != 1 {
		t.Fatalf("expected re-download on changed etag, got %+v", result)
	}

	metas, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if metas[0].RemoteETag.String != "etag-2" {
		t.Fatalf("expected metadata to reflect new etag, got %+v", metas[0])
	}
}

func TestSyncDeletesLocalFileWhenRemoteContactRemoved(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	delete(remote.cards, "alice.vcf")
	delete(remote.etags, "alice.vcf")

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.DeletedLocal != 1 {
		t.Fatalf("expected local deletion, got %+v", result)
	}

	files, err := vdir.ListVCFFiles(cfg.Vdir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("expected local file to be removed, found %v", files)
	}

	metas, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Fatalf("expected sync metadata cleared, got %+v", metas)
	}
}

func TestSyncKeepsLocallyModifiedFileOnRemoteDeletionWhenOursPreferred(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	rc.ConflictPrefer = "ours"
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	files, err := vdir.ListVCFFiles(cfg.Vdir)
	if err != nil {
		t.Fatal(err)
	}
	localPath := files[0]

	if err := db.UpsertSyncMetadata(context.Background(), index.SyncMetadata{
		ContactPath:   localPath,
		RemoteName:    "work",
		RemoteHref:    "alice.vcf",
		RemoteETag:    sql.NullString{String: "etag-1", Valid: true},
		LastSynced:    sql.NullInt64{Int64: time.Now().Unix(), Valid: true},
		LocalModified: true,
	}); err != nil {
		t.Fatal(err)
	}

	delete(remote.cards, "alice.vcf")
	delete(remote.etags, "alice.vcf")

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.DeletedLocal != 0 {
		t.Fatalf("expected local file to survive remote deletion, got %+v", result)
	}
	if _, err := os.Stat(localPath); err != nil {
		t.Fatalf("expected local file to still exist: %v", err)
	}
}

func TestSyncUploadsNewLocalFile(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	if err := os.MkdirAll(cfg.Vdir, 0o755); err != nil {
		t.Fatal(err)
	}
	card := newTestCard("Bob Local")
	encoded, err := vcardio.EncodeCard(card)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.Vdir, "bob.vcf")
	if err := vdir.WriteAtomic(path, encoded); err != nil {
		t.Fatal(err)
	}

	remote := newFakeRemote()

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Uploaded != 1 {
		t.Fatalf("expected one upload, got %+v", result)
	}
	if len(remote.cards) != 1 {
		t.Fatalf("expected remote to have one card, got %v", remote.cards)
	}
}

func TestSyncReuploadsLocallyModifiedFile(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	if err := os.MkdirAll(cfg.Vdir, 0o755); err != nil {
		t.Fatal(err)
	}
	card := newTestCard("Bob Local")
	encoded, err := vcardio.EncodeCard(card)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.Vdir, "bob.vcf")
	if err := vdir.WriteAtomic(path, encoded); err != nil {
		t.Fatal(err)
	}

	remote := newFakeRemote()
	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	if err := db.UpsertSyncMetadata(context.Background(), index.SyncMetadata{
		ContactPath:   path,
		RemoteName:    "work",
		RemoteHref:    "bob.vcf",
		RemoteETag:    sql.NullString{String: "etag-1", Valid: true},
		LastSynced:    sql.NullInt64{Int64: time.Now().Unix(), Valid: true},
		LocalModified: true,
	}); err != nil {
		t.Fatal(err)
	}

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Uploaded != 1 {
		t.Fatalf("expected reupload of locally modified file, got %+v", result)
	}
}

func TestSyncDeletesRemoteWhenLocalFileRemoved(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	if err := os.MkdirAll(cfg.Vdir, 0o755); err != nil {
		t.Fatal(err)
	}
	card := newTestCard("Bob Local")
	encoded, err := vcardio.EncodeCard(card)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.Vdir, "bob.vcf")
	if err := vdir.WriteAtomic(path, encoded); err != nil {
		t.Fatal(err)
	}

	remote := newFakeRemote()
	if _, err := engine.Sync(context.Background(), remote); err != nil {
		t.Fatal(err)
	}

	uploaded, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(uploaded) != 1 {
		t.Fatalf("expected one sync metadata row after upload, got %+v", uploaded)
	}
	href := uploaded[0].RemoteHref

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.DeletedRemote != 1 {
		t.Fatalf("expected remote deletion, got %+v", result)
	}
	if len(remote.deletions) != 1 || remote.deletions[0] != href {
		t.Fatalf("expected remote.Delete called with %s, got %v", href, remote.deletions)
	}

	metas, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Fatalf("expected sync metadata cleared after remote delete, got %+v", metas)
	}
}

func TestSyncDryRunPerformsNoMutations(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, true)

	remote := newFakeRemote()
	remote.seed("alice.vcf", newTestCard("Alice Example"), "etag-1")

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != 0 || result.Uploaded != 0 || result.DeletedLocal != 0 || result.DeletedRemote != 0 {
		t.Fatalf("expected no-op result in dry-run, got %+v", result)
	}

	if _, err := os.Stat(cfg.Vdir); err == nil {
		files, _ := vdir.ListVCFFiles(cfg.Vdir)
		if len(files) != 0 {
			t.Fatalf("expected no local files written in dry-run, got %v", files)
		}
	}

	metas, err := db.GetSyncMetadataForRemote(context.Background(), "work")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 0 {
		t.Fatalf("expected no sync metadata written in dry-run, got %+v", metas)
	}
}

func TestSyncBatchesFetchesAbovePageSize(t *testing.T) {
	cfg := newTestConfig(t)
	db := newTestDB(t)
	rc := remoteCfg("work")
	engine := New(cfg, rc, db, false)

	remote := newFakeRemote()
	for i := 0; i < fetchBatchSize+10; i++ {
		remote.seed(filepath.Join("contacts", itoaPad(i)+".vcf"), newTestCard("Person "+itoaPad(i)), "etag-"+itoaPad(i))
	}

	result, err := engine.Sync(context.Background(), remote)
	if err != nil {
		t.Fatal(err)
	}
	if result.Downloaded != fetchBatchSize+10 {
		t.Fatalf("expected all contacts downloaded across batches, got %+v", result)
	}
}

func itoaPad(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "00" + string(digits[i])
	}
	if i < 100 {
		return "0" + string(digits[i/10]) + string(digits[i%10])
	}
	return string(digits[i/100]) + string(digits[(i/10)%10]) + string(digits[i%10])
}

func TestChunkSplitsIntoFixedSizeGroups(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	got := chunk(items, 2)
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Fatalf("unexpected chunking: %v", got)
	}
}

func TestChunkEmptyInputReturnsNil(t *testing.T) {
	if got := chunk(nil, 50); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}

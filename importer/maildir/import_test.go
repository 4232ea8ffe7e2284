/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/verdigris12/rldx-sub000/config"
	"github.com/verdigris12/rldx-sub000/index"
)

const rawMessage = "From: \"Jane Doe\" <jane@example.com>\r\n" +
	"To: \"John Roe\" <john@example.com>\r\n" +
	"Subject: hello\r\n" +
	"\r\n" +
	"body\r\n"

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Vdir:             t.TempDir(),
		SimHashThreshold: config.DefaultSimHashThreshold,
		JWThreshold:      config.DefaultJWThreshold,
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

func TestImportCreatesVcardsForExtractedContacts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cur", "1"), rawMessage)

	cfg := newTestConfig(t)
	db := newTestDB(t)

	result, err := Import(context.Background(), root, cfg, "", 0.9, false, 1, db)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 contacts imported, got %+v", result)
	}

	entries, err := os.ReadDir(cfg.Vdir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 vcf files, got %d", len(entries))
	}
}

func TestImportSkipsExistingEmail(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cur", "1"), rawMessage)

	cfg := newTestConfig(t)
	db := newTestDB(t)

	if err := db.Upsert(context.Background(), index.IndexedItem{
		UUID: "existing-uuid",
		Path: "existing.vcf",
		FN:   "Jane Doe",
	}, []index.IndexedProp{
		{Field: "EMAIL", Value: "jane@example.com"},
	}); err != nil {
		t.Fatal(err)
	}

	result, err := Import(context.Background(), root, cfg, "", 0.9, false, 1, db)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected only the non-existing contact imported, got %+v", result)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected one skip, got %+v", result)
	}
}

func TestImportSkipsConfiguredEmailPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cur", "1"), rawMessage)

	cfg := newTestConfig(t)
	cfg.EmailSkipPatterns = []string{"john@"}
	db := newTestDB(t)

	result, err := Import(context.Background(), root, cfg, "", 0.9, false, 1, db)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 import after skip pattern, got %+v", result)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skip, got %+v", result)
	}
}

func TestImportEmptyMaildirNoOp(t *testing.T) {
	root := t.TempDir()
	cfg := newTestConfig(t)
	db := newTestDB(t)

	result, err := Import(context.Background(), root, cfg, "", 0.9, false, 1, db)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 0 || result.Skipped != 0 {
		t.Fatalf("expected no-op result, got %+v", result)
	}
}

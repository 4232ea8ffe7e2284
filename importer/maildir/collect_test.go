/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectMailFilesFindsCurAndNew(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cur", "1:2,S"), "msg1")
	writeFile(t, filepath.Join(root, "new", "2"), "msg2")
	writeFile(t, filepath.Join(root, "tmp", "3"), "msg3")

	files, err := CollectMailFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}

func TestCollectMailFilesRecursesIntoSubAccounts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "account-a", "cur", "1"), "msg1")
	writeFile(t, filepath.Join(root, "account-b", "new", "2"), "msg2")

	files, err := CollectMailFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}

func TestCollectMailFilesEmptyTree(t *testing.T) {
	root := t.TempDir()
	files, err := CollectMailFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}

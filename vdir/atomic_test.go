/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicCreatesFileWithContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "card.vcf")

	if err := WriteAtomic(target, []byte("hello")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "card.vcf")

	if err := WriteAtomic(target, []byte("v1")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	if err := WriteAtomic(target, []byte("v2")); err != nil {
		t.Fatalf("WriteAtomic (overwrite): %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file left in dir, got %d", len(entries))
	}
	if entries[0].Name() != "card.vcf" {
		t.Fatalf("unexpected leftover file %q", entries[0].Name())
	}
}

func TestWriteAtomicCreatesParentDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deep", "card.vcf")

	if err := WriteAtomic(target, []byte("x")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected target to exist: %v", err)
	}
}

func TestWriteAtomicRejectsPathWithNoParent(t *testing.T) {
	t.Parallel()

	if err := WriteAtomic("card.vcf", []byte("x")); err != ErrNoParent {
		t.Fatalf("got %v, want ErrNoParent", err)
	}
}

func TestListVCFFilesIsCaseInsensitiveAndRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	paths := []string{
		filepath.Join(dir, "a.vcf"),
		filepath.Join(dir, "b.VCF"),
		filepath.Join(sub, "c.Vcf"),
		filepath.Join(dir, "ignore.txt"),
	}
	for _, p := range paths {
		if err := os.WriteFile(p, []byte("BEGIN:VCARD\r\nEND:VCARD\r\n"), 0o644); err != nil {
			t.Fatalf("WriteFile %s: %v", p, err)
		}
	}

	files, err := ListVCFFiles(dir)
	if err != nil {
		t.Fatalf("ListVCFFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(files), files)
	}
}

func TestListVCFFilesSkipsSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	real := filepath.Join(dir, "real.vcf")
	if err := os.WriteFile(real, []byte("BEGIN:VCARD\r\nEND:VCARD\r\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	link := filepath.Join(dir, "link.vcf")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	files, err := ListVCFFiles(dir)
	if err != nil {
		t.Fatalf("ListVCFFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 (symlink should be skipped): %v", len(files), files)
	}
}

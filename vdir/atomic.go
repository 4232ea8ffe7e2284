/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteAtomic writes data to target such that, after any crash, target is
// either fully the new contents or fully the old contents — never a partial
// write and never a visible temp file at the final name. Grounded on
// original_source/rldx/src/vdir.rs::write_atomic: create a sibling temp file
// exclusively, write, fsync, rename over target, then fsync the parent
// directory.
func WriteAtomic(target string, data []byte) error {
	parent := filepath.Dir(target)
	if parent == "." && filepath.Base(target) == target {
		return ErrNoParent
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create parent dir %s: %w", parent, err)
	}

	tempPath, err := createExclusiveTemp(parent, filepath.Base(target))
	if err != nil {
		return err
	}

	if err := writeAndSync(tempPath, data); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, target); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempPath, target, err)
	}

	if dirFile, err := os.Open(parent); err == nil {
		_ = dirFile.Sync()
		_ = dirFile.Close()
	}

	return nil
}

func createExclusiveTemp(parent, name string) (string, error) {
	counter := 0
	for {
		var candidate string
		if counter == 0 {
			candidate = "." + name + ".tmp"
		} else {
			candidate = fmt.Sprintf(".%s.%d.tmp", name, counter)
		}
		path := filepath.Join(parent, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			_ = f.Close()
			return path, nil
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("failed to create temporary file %s: %w", path, err)
		}
		counter++
	}
}

func writeAndSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open temporary file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file %s: %w", path, err)
	}
	return nil
}

// ListVCFFiles recursively enumerates .vcf files under root, case
// insensitive on extension, without following symlinks.
func ListVCFFiles(root string) ([]string, error) {
	var files []string
	if err := collectVCF(root, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func collectVCF(dir string, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			if err := collectVCF(path, files); err != nil {
				return err
			}
			continue
		}
		ext := filepath.Ext(entry.Name())
		if strings.EqualFold(ext, ".vcf") {
			*files = append(*files, path)
		}
	}
	return nil
}

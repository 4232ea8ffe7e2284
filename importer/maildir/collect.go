/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package maildir imports contacts by scanning a Maildir tree's message
// headers (From/To/Cc/Reply-To) for named addresses, deduplicating by
// email, and creating or merging vdir contacts. Grounded line-for-line on
// original_source/src/import/maildir.rs.
package maildir

import (
	"os"
	"path/filepath"
)

// CollectMailFiles walks root for every regular file under a "cur" or "new"
// subdirectory at any depth, skipping "cur"/"new"/"tmp" directories
// themselves during recursion (the standard Maildir layout nests one
// mailbox's cur/new/tmp under each folder). Grounded on
// original_source/src/import/maildir.rs::collect_all_mail_files/
// collect_maildir_files_recursive/collect_files_from_dir.
func CollectMailFiles(root string) ([]string, error) {
	var files []string
	if err := collectRecursive(root, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func collectRecursive(dir string, files *[]string) error {
	if curFiles, err := filesIn(filepath.Join(dir, "cur")); err == nil {
		*files = append(*files, curFiles...)
	}
	if newFiles, err := filesIn(filepath.Join(dir, "new")); err == nil {
		*files = append(*files, newFiles...)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == "cur" || name == "new" || name == "tmp" {
			continue
		}
		if err := collectRecursive(filepath.Join(dir, name), files); err != nil {
			return err
		}
	}
	return nil
}

func filesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

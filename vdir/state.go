/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"crypto/sha1"
	"fmt"
	"os"
)

// FileState is the content hash and modification time of a .vcf file on
// disk, used by the index to decide whether a file needs reprocessing.
// Grounded on original_source/rldx/src/vdir.rs::FileState/compute_file_state.
type FileState struct {
	SHA1  [sha1.Size]byte
	MTime int64
}

// ComputeFileState reads path and returns its content hash and modification
// time in unix seconds.
func ComputeFileState(path string) (FileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileState{}, fmt.Errorf("failed to read metadata for %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileState{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return FileState{
		SHA1:  sha1.Sum(data),
		MTime: info.ModTime().Unix(),
	}, nil
}

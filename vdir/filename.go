/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// candidateLengths are the hex-prefix lengths tried in order when choosing a
// filename stem for a card's UID, shortest first. Grounded on
// original_source/rldx/src/vdir.rs::select_filename.
var candidateLengths = []int{12, 16, 20, 24, 28, 32}

// ExistingStems returns the set of filename stems (basename without the .vcf
// extension) currently present under vdir, for collision checking during
// normalization.
func ExistingStems(root string) (map[string]bool, error) {
	files, err := ListVCFFiles(root)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]bool, len(files))
	for _, f := range files {
		stems[Stem(f)] = true
	}
	return stems, nil
}

// Stem returns the basename of path with its extension removed.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SelectFilename picks a filename stem (without extension or directory) for
// a card identified by id, given the set of stems already used elsewhere in
// the vdir and, if known, the stem the card previously lived at. The chosen
// stem is inserted into used before returning, so that subsequent calls for
// sibling cards from the same original (multi-card) file do not collide with
// it.
//
// The algorithm tries successively longer hex prefixes of the UID (without
// dashes) at lengths 12, 16, 20, 24, 28, 32: at each length, it prefers a
// candidate equal to originalStem, otherwise it accepts the first candidate
// not already present in used. Failing every prefix length (astronomically
// unlikely outside of adversarial test fixtures), it falls back to the full
// 32-char hex, then a "-{counter}" suffix appended until a free name is
// found.
func SelectFilename(id uuid.UUID, used map[string]bool, originalStem string) string {
	hex := strings.ReplaceAll(id.String(), "-", "")

	for _, n := range candidateLengths {
		candidate := hex[:n]
		if candidate == originalStem || !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}

	if hex == originalStem || !used[hex] {
		used[hex] = true
		return hex
	}

	counter := uint32(1)
	for {
		candidate := fmt.Sprintf("%s-%x", hex, counter)
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
		counter++
	}
}

// TargetPath joins dir and stem into a ".vcf" file path. Grounded on
// original_source/rldx/src/vdir.rs::vcf_target_path, with its
// SQLCipher-encrypted-extension branch dropped since this module carries
// no encryption-at-rest support (see DESIGN.md).
func TargetPath(dir, stem string) string {
	return filepath.Join(dir, stem+".vcf")
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"

	"github.com/verdigris12/rldx-sub000/logging"
	"github.com/verdigris12/rldx-sub000/vcardio"
)

const normalizedMarker = ".rldx_normalized"

// NormalizedCard records the UUID and final on-disk path of one card that
// survived a normalization pass.
type NormalizedCard struct {
	UUID uuid.UUID
	Path string
}

// NormalizationReport summarizes the outcome of a call to Normalize.
type NormalizationReport struct {
	Cards         []NormalizedCard
	NeedsUpgrade  []string
	MarkerCreated bool
}

// MarkerPath returns the path of the normalization marker file for vdir.
func MarkerPath(vdir string) string {
	return filepath.Join(vdir, normalizedMarker)
}

// IsNormalized reports whether vdir has already completed its one-shot
// normalization pass.
func IsNormalized(vdir string) bool {
	_, err := os.Stat(MarkerPath(vdir))
	return err == nil
}

// Normalize performs the one-shot upgrade pass described in SPEC_FULL.md
// §4.3: every V4 card in vdir is given a UUID UID if it lacks one, has its
// REV touched, and is rewritten atomically under a filename derived from its
// UID; the original file is removed once it is safely superseded. Cards that
// are not version 4.0 are left untouched and reported under NeedsUpgrade.
// The pass is idempotent: it is a no-op once the marker file exists.
// Grounded on original_source/rldx/src/vdir.rs::normalize/process_cards.
func Normalize(vdir string) (*NormalizationReport, error) {
	logger := logging.Logger(logging.SourceVdir)
	report := &NormalizationReport{}

	if info, err := os.Stat(vdir); err != nil || !info.IsDir() {
		return nil, ErrVdirMissing
	}

	marker := MarkerPath(vdir)
	if _, err := os.Stat(marker); err == nil {
		return report, nil
	}

	used, err := ExistingStems(vdir)
	if err != nil {
		return nil, err
	}

	files, err := ListVCFFiles(vdir)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var filesToRemove []string

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read vcard file", "path", path, "err", err)
			continue
		}

		cards, err := vcardio.DecodeCards(data)
		if err != nil {
			logger.Warn("unable to parse vCard file", "path", path, "err", err)
			continue
		}

		removePath, err := processCards(vdir, path, cards, used, report)
		if err != nil {
			logger.Warn("failed to normalize vcard file", "path", path, "err", err)
			continue
		}
		if removePath {
			filesToRemove = append(filesToRemove, path)
		}
	}

	for _, path := range filesToRemove {
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				logger.Warn("failed to remove original file", "path", path, "err", err)
			}
		}
	}

	if _, err := os.Stat(marker); err != nil {
		if err := os.WriteFile(marker, nil, 0o644); err != nil {
			logger.Warn("failed to create normalization marker", "path", marker, "err", err)
		} else {
			report.MarkerCreated = true
		}
	}

	return report, nil
}

// processCards normalizes every card parsed out of originalPath and reports
// whether originalPath itself is now safe to delete.
func processCards(
	vdir string,
	originalPath string,
	cards []vcard.Card,
	used map[string]bool,
	report *NormalizationReport,
) (bool, error) {
	multi := len(cards) > 1
	canRemoveOriginal := true
	wroteAny := false
	wroteToDifferentPath := false
	originalStem := Stem(originalPath)

	for _, card := range cards {
		if !vcardio.IsV4(card) {
			if !containsPath(report.NeedsUpgrade, originalPath) {
				report.NeedsUpgrade = append(report.NeedsUpgrade, originalPath)
			}
			canRemoveOriginal = false
			continue
		}

		id, err := vcardio.EnsureUUIDUID(card)
		if err != nil {
			return false, fmt.Errorf("failed to ensure UID for %s: %w", originalPath, err)
		}
		vcardio.TouchRev(card, time.Now().UTC())

		shortName := SelectFilename(id, used, originalStem)
		target := filepath.Join(vdir, shortName+".vcf")

		data, err := vcardio.EncodeCard(card)
		if err != nil {
			return false, fmt.Errorf("failed to encode card %s: %w", id, err)
		}
		if err := WriteAtomic(target, data); err != nil {
			return false, fmt.Errorf("failed to write card %s: %w", id, err)
		}
		wroteAny = true

		report.Cards = append(report.Cards, NormalizedCard{UUID: id, Path: target})

		if target != originalPath {
			wroteToDifferentPath = true
		}
	}

	remove := canRemoveOriginal && wroteAny && fileExists(originalPath) && (multi || wroteToDifferentPath)
	return remove, nil
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

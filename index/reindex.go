/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"context"
	"os"

	"github.com/verdigris12/rldx-sub000/logging"
	"github.com/verdigris12/rldx-sub000/vcardio"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// ReindexReport summarizes one Reindex pass.
type ReindexReport struct {
	Indexed int
	Removed int
	Skipped int
}

// Reindex walks every .vcf file under root, (re)indexing any whose content
// hash differs from the stored one, then drops index rows for files no
// longer present. When force is true the schema is reset first and every
// file is reindexed regardless of its stored hash. Grounded on
// original_source/src/main.rs::reindex.
func Reindex(ctx context.Context, db *DB, root, phoneRegion string, force bool) (ReindexReport, error) {
	logger := logging.Logger(logging.SourceIndex)
	var report ReindexReport

	if force {
		if err := db.ResetSchema(ctx); err != nil {
			return report, err
		}
	}

	files, err := vdir.ListVCFFiles(root)
	if err != nil {
		return report, err
	}

	existingPaths := make(map[string]bool, len(files))
	for _, path := range files {
		existingPaths[path] = true
	}

	var stored map[string]StoredItem
	if !force {
		stored, err = db.StoredItems(ctx)
		if err != nil {
			return report, err
		}
	}

	for _, path := range files {
		state, err := vdir.ComputeFileState(path)
		if err != nil {
			logger.Warn("failed to stat vcard file", "path", path, "err", err)
			report.Skipped++
			continue
		}

		if !force {
			if existing, ok := stored[path]; ok && existing.SHA1 == state.SHA1 {
				continue
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read vcard file", "path", path, "err", err)
			report.Skipped++
			continue
		}

		cards, err := vcardio.DecodeCards(data)
		if err != nil {
			logger.Warn("unable to parse vcard file", "path", path, "err", err)
			report.Skipped++
			continue
		}
		if len(cards) > 1 {
			logger.Warn("file contains multiple cards; indexing the first", "path", path, "count", len(cards))
		}
		card := cards[0]

		if vcardio.NormalizePhoneNumbers(card, phoneRegion) {
			encoded, err := vcardio.EncodeCard(card)
			if err != nil {
				logger.Warn("failed to re-encode normalized card", "path", path, "err", err)
				report.Skipped++
				continue
			}
			if err := vdir.WriteAtomic(path, encoded); err != nil {
				logger.Warn("failed to write normalized card", "path", path, "err", err)
				report.Skipped++
				continue
			}
			state, err = vdir.ComputeFileState(path)
			if err != nil {
				logger.Warn("failed to restat normalized card", "path", path, "err", err)
				report.Skipped++
				continue
			}
		}

		item, props := ItemAndPropsFromCard(card, path, state.SHA1, state.MTime)
		if item.UUID == "" {
			logger.Warn("vcard file has no UID, skipping", "path", path)
			report.Skipped++
			continue
		}

		if err := db.Upsert(ctx, item, props); err != nil {
			logger.Warn("failed to index vcard file", "path", path, "err", err)
			report.Skipped++
			continue
		}
		report.Indexed++
	}

	storedBeforeRemoval, err := db.StoredItems(ctx)
	if err != nil {
		return report, err
	}
	for path := range storedBeforeRemoval {
		if !existingPaths[path] {
			report.Removed++
		}
	}
	if err := db.RemoveMissing(ctx, existingPaths); err != nil {
		return report, err
	}

	return report, nil
}

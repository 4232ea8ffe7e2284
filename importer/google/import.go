/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/verdigris12/rldx-sub000/config"
	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/logging"
	"github.com/verdigris12/rldx-sub000/merge"
	"github.com/verdigris12/rldx-sub000/vcardio"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// MergeInfo records one contact folded into an existing one instead of
// being imported as new.
type MergeInfo struct {
	Email      string
	Name       string
	MergedInto string
	Score      float64
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Merged   []MergeInfo
	Skipped  int
}

// Import reads a Google Contacts vCard export at inputPath and writes each
// contact into book (a subdirectory of cfg.Vdir, or cfg.Vdir itself when
// book is empty), skipping contacts whose primary email already exists and
// optionally folding close matches into existing contacts instead of
// creating duplicates. Grounded on
// original_source/src/import/google.rs::import_google_contacts.
func Import(ctx context.Context, inputPath string, cfg *config.Config, book string, automergeThreshold float64, autoMergeEnabled bool, db *index.DB) (Result, error) {
	log := logging.Logger(logging.SourceImport)

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read Google Contacts export at %s: %w", inputPath, err)
	}

	cards := splitCards(string(content))
	if len(cards) == 0 {
		return Result{}, fmt.Errorf("no vCards found in Google export")
	}

	targetDir := cfg.Vdir
	if book != "" {
		targetDir = filepath.Join(cfg.Vdir, book)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to ensure target address book directory %s: %w", targetDir, err)
	}

	used, err := vdir.ExistingStems(targetDir)
	if err != nil {
		return Result{}, err
	}

	var finder *merge.Finder
	if autoMergeEnabled {
		entries, err := db.ListAllSimHashes(ctx)
		if err != nil {
			return Result{}, err
		}
		finder = merge.NewFinder(entries, cfg.SimHashThreshold, cfg.JWThreshold)
	}

	var result Result

	for i, lines := range cards {
		raw, err := convertGoogleCard(lines)
		if err != nil {
			log.Warn("skipping contact, conversion failed", "index", i+1, "err", err)
			result.Skipped++
			continue
		}

		card, err := vcardio.DecodeCard([]byte(raw))
		if err != nil {
			log.Warn("skipping contact, decode failed", "index", i+1, "err", err)
			result.Skipped++
			continue
		}
		vcardio.NormalizePhoneNumbers(card, cfg.PhoneRegion)

		fnValue, _ := vcardio.SelectDisplayFN(card, "")
		var primaryEmail string
		if emails := card[vcard.FieldEmail]; len(emails) > 0 {
			primaryEmail = emails[0].Value
		}

		var nicknames []string
		for _, n := range card[vcard.FieldNickname] {
			nicknames = append(nicknames, n.Value)
		}

		if primaryEmail != "" {
			exists, err := db.EmailExists(ctx, primaryEmail)
			if err != nil {
				return result, err
			}
			if exists {
				result.Skipped++
				continue
			}
		}

		if finder != nil && fnValue != "" {
			if cand, ok := finder.Find(fnValue, nicknames, cfg.IsValidFNForMerge, cfg.IsValidNicknameForMerge); ok && cand.Score >= automergeThreshold {
				merged, err := mergeIntoExistingFile(cand.Path, card)
				if err != nil {
					return result, err
				}
				if merged {
					result.Merged = append(result.Merged, MergeInfo{
						Email:      primaryEmail,
						Name:       fnValue,
						MergedInto: cand.DisplayFN,
						Score:      cand.Score,
					})
					continue
				}
			}
		}

		uid, err := vcardio.EnsureUUIDUID(card)
		if err != nil {
			return result, err
		}
		vcardio.TouchRev(card, time.Now())

		filename := vdir.SelectFilename(uid, used, "")
		path := vdir.TargetPath(targetDir, filename)
		encoded, err := vcardio.EncodeCard(card)
		if err != nil {
			return result, err
		}
		if err := vdir.WriteAtomic(path, encoded); err != nil {
			return result, err
		}
		result.Imported++
	}

	return result, nil
}

func mergeIntoExistingFile(path string, source vcard.Card) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read merge target %s: %w", path, err)
	}
	cards, err := vcardio.DecodeCards(data)
	if err != nil || len(cards) == 0 {
		return false, nil
	}
	existing := cards[0]

	if !merge.IntoExisting(existing, source, time.Now()) {
		return false, nil
	}

	encoded, err := vcardio.EncodeCard(existing)
	if err != nil {
		return false, err
	}
	if err := vdir.WriteAtomic(path, encoded); err != nil {
		return false, err
	}
	return true, nil
}

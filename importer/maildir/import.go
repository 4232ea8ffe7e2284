/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
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

// Import scans inputDir as a Maildir tree, extracts one contact per unique
// address seen across From/To/Cc/Reply-To headers, and writes each into
// book (a subdirectory of cfg.Vdir, or cfg.Vdir itself). workers bounds the
// header-parsing worker pool; 0 defaults to 1. Grounded on
// original_source/src/import/maildir.rs::import_maildir/import_contacts.
func Import(ctx context.Context, inputDir string, cfg *config.Config, book string, automergeThreshold float64, autoMergeEnabled bool, workers int, db *index.DB) (Result, error) {
	log := logging.Logger(logging.SourceImport)

	files, err := CollectMailFiles(inputDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to scan maildir %s: %w", inputDir, err)
	}
	if len(files) == 0 {
		return Result{}, nil
	}
	log.Info("scanning maildir", "files", len(files))

	contacts := parseEmailsParallel(files, workers)
	if len(contacts) == 0 {
		return Result{}, nil
	}
	log.Info("extracted contacts", "count", len(contacts))

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

	for _, contact := range contacts {
		if cfg.ShouldSkipEmail(contact.Email) {
			result.Skipped++
			continue
		}

		exists, err := db.EmailExists(ctx, contact.Email)
		if err != nil {
			return result, err
		}
		if exists {
			result.Skipped++
			continue
		}

		if finder != nil {
			aliases := make([]string, 0, len(contact.Aliases))
			for a := range contact.Aliases {
				aliases = append(aliases, a)
			}
			if cand, ok := finder.Find(contact.PrimaryName, aliases, cfg.IsValidFNForMerge, cfg.IsValidNicknameForMerge); ok && cand.Score >= automergeThreshold {
				merged, err := mergeIntoExistingFile(cand.Path, contact)
				if err != nil {
					return result, err
				}
				if merged {
					result.Merged = append(result.Merged, MergeInfo{
						Email:      contact.Email,
						Name:       contact.PrimaryName,
						MergedInto: cand.DisplayFN,
						Score:      cand.Score,
					})
					continue
				}
			}
		}

		card := createVCard(contact)
		vcardio.NormalizePhoneNumbers(card, cfg.PhoneRegion)

		uid, err := vcardio.EnsureUUIDUID(card)
		if err != nil {
			log.Warn("skipping contact, conversion failed", "email", contact.Email, "err", err)
			result.Skipped++
			continue
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

// mergeIntoExistingFile folds contact's email and aliases (as nicknames)
// into the vdir card at path. Grounded on
// original_source/src/import/maildir.rs::merge_into_existing — narrower
// than the Google importer's merge.IntoExisting since a maildir-extracted
// contact contributes only an email address and name aliases, never phone
// numbers or a second FN.
func mergeIntoExistingFile(path string, contact *ExtractedContact) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read merge target %s: %w", path, err)
	}
	cards, err := vcardio.DecodeCards(data)
	if err != nil || len(cards) == 0 {
		return false, nil
	}
	card := cards[0]

	changed := false

	hasEmail := false
	for _, f := range card[vcard.FieldEmail] {
		if strings.EqualFold(f.Value, contact.Email) {
			hasEmail = true
			break
		}
	}
	if !hasEmail {
		card.Add(vcard.FieldEmail, &vcard.Field{Value: contact.Email})
		changed = true
	}

	for alias := range contact.Aliases {
		hasAlias := false
		for _, f := range card[vcard.FieldNickname] {
			if strings.EqualFold(f.Value, alias) {
				hasAlias = true
				break
			}
		}
		if !hasAlias {
			card.Add(vcard.FieldNickname, &vcard.Field{Value: alias})
			changed = true
		}
	}

	if !changed {
		return false, nil
	}

	vcardio.TouchRev(card, time.Now())
	encoded, err := vcardio.EncodeCard(card)
	if err != nil {
		return false, err
	}
	if err := vdir.WriteAtomic(path, encoded); err != nil {
		return false, err
	}
	return true, nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package merge implements the fuzzy-duplicate detector used by the import
// pipelines: a SimHash BK-tree prefilter followed by Jaro-Winkler
// verification, and the union-merge that folds a new card's EMAIL/TEL/
// NICKNAME values into an existing one. Grounded on
// original_source/src/import/google.rs and .../maildir.rs, whose
// find_merge_candidate/collect_candidates/merge_card_into_existing are
// shared verbatim between the two importers in the original; here they live
// in one package imported by both importer/google and importer/maildir.
package merge

import "errors"

// ErrNoCandidate describes the case where no existing contact is a
// sufficiently close match. Find does not return it; Find reports that case
// through its boolean result.
var ErrNoCandidate = errors.New("no merge candidate found")

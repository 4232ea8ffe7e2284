/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package translit detects non-Latin scripts and folds text to a
// lowercase, diacritic-stripped form for search indexing. Grounded on
// original_source/src/translit.rs. Unlike the original's deunicode-backed
// transliterate (which maps Cyrillic/Han/etc. to phonetic Latin spellings),
// this port only strips combining marks via Unicode NFKD decomposition —
// the closest equivalent available without a pack or ecosystem library that
// performs script-to-Latin transliteration; see DESIGN.md.
package translit

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package index implements the relational SQLite index described in
// SPEC_FULL.md §4.4: a single-file database mirroring the vdir's contacts
// and their properties for fast listing and querying, plus the simhashes
// table feeding the fuzzy-merge engine. Grounded on
// original_source/src/db.rs.
package index

import "errors"

var (
	// ErrNotInitialized describes an index database that was never opened.
	// No function in this package returns it.
	ErrNotInitialized = errors.New("index database is not initialized")
)

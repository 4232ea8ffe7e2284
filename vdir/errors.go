/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vdir implements the atomic file store, the recursive .vcf
// enumerator, filename selection, and the one-shot normalization pass.
// Grounded on original_source/rldx/src/vdir.rs.
package vdir

import "errors"

var (
	// ErrVdirMissing is returned when the configured root does not exist.
	ErrVdirMissing = errors.New("vdir root does not exist")
	// ErrNoParent is returned when an atomic write target has no parent
	// directory component.
	ErrNoParent = errors.New("target path has no parent directory")
)

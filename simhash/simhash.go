/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package simhash computes 64-bit SimHash fingerprints of normalized names
// and indexes them in a BK-tree for fast fuzzy (Hamming-distance) lookup.
// Grounded on original_source/src/import/simhash_index.rs and the
// compute_simhash/db.rs callers, using a standard word-shingle SimHash
// construction (the original's `simhash` crate's algorithm is not in the
// retrieved sources, so this is the textbook construction: each token is
// hashed with FNV-1a, then each of the 64 bit positions is tallied across
// all tokens and rounded to the majority bit).
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// SimHash computes a 64-bit fingerprint of normalized (already lowercased,
// transliterated) text, suitable for Hamming-distance fuzzy comparison.
func SimHash(normalized string) uint64 {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return 0
	}

	var weights [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		for bit := 0; bit < 64; bit++ {
			if sum&(1<<uint(bit)) != 0 {
				weights[bit]++
			} else {
				weights[bit]--
			}
		}
	}

	var result uint64
	for bit := 0; bit < 64; bit++ {
		if weights[bit] > 0 {
			result |= 1 << uint(bit)
		}
	}
	return result
}

// HammingDistance returns the number of differing bits between two SimHash
// values.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// NameSource distinguishes whether a SimHash entry was derived from a
// contact's FN or one of its NICKNAME values. FN-sourced matches are
// preferred over NICKNAME-sourced matches during merge candidate selection.
type NameSource int

const (
	SourceFN NameSource = iota
	SourceNickname
)

// ParseNameSource parses the source strings stored by the relational index
// ("FN" / "NICKNAME"), defaulting to SourceNickname for anything else.
func ParseNameSource(s string) NameSource {
	if s == "FN" {
		return SourceFN
	}
	return SourceNickname
}

func (s NameSource) String() string {
	if s == SourceFN {
		return "FN"
	}
	return "NICKNAME"
}

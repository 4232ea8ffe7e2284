/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vdir

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSelectFilenamePrefersShortestUnusedPrefix(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	used := map[string]bool{}

	got := SelectFilename(id, used, "")
	if got != hex[:12] {
		t.Fatalf("got %q, want 12-char prefix %q", got, hex[:12])
	}
	if !used[got] {
		t.Fatalf("expected chosen stem to be marked used")
	}
}

func TestSelectFilenamePrefersOriginalStemMatch(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	used := map[string]bool{hex[:12]: true}

	got := SelectFilename(id, used, hex[:16])
	if got != hex[:16] {
		t.Fatalf("got %q, want original-stem-matching prefix %q", got, hex[:16])
	}
}

func TestSelectFilenameFallsBackThroughLadder(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	used := map[string]bool{
		hex[:12]: true,
		hex[:16]: true,
		hex[:20]: true,
	}

	got := SelectFilename(id, used, "")
	if got != hex[:24] {
		t.Fatalf("got %q, want 24-char prefix %q", got, hex[:24])
	}
}

func TestSelectFilenameFallsBackToFullHexThenCounter(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	hex := strings.ReplaceAll(id.String(), "-", "")
	used := map[string]bool{}
	for _, n := range candidateLengths {
		used[hex[:n]] = true
	}

	got := SelectFilename(id, used, "")
	if got != hex {
		t.Fatalf("got %q, want full hex %q", got, hex)
	}

	used2 := map[string]bool{}
	for _, n := range candidateLengths {
		used2[hex[:n]] = true
	}
	used2[hex] = true

	got2 := SelectFilename(id, used2, "")
	want := hex + "-1"
	if got2 != want {
		t.Fatalf("got %q, want %q", got2, want)
	}
}

func TestSelectFilenameMutatesUsedForSiblingCalls(t *testing.T) {
	t.Parallel()

	used := map[string]bool{}
	id1 := uuid.New()
	id2 := uuid.New()

	first := SelectFilename(id1, used, "")
	second := SelectFilename(id2, used, "")

	if first == second {
		t.Fatalf("expected distinct stems for distinct UUIDs, got %q twice", first)
	}
	if !used[first] || !used[second] {
		t.Fatalf("expected both stems recorded in used map")
	}
}

func TestStemStripsExtension(t *testing.T) {
	t.Parallel()

	if got := Stem("/a/b/card.vcf"); got != "card" {
		t.Fatalf("got %q, want card", got)
	}
	if got := Stem("card.VCF"); got != "card" {
		t.Fatalf("got %q, want card", got)
	}
}

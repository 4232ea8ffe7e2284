/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package merge

import (
	"testing"

	"github.com/verdigris12/rldx-sub000/simhash"
	"github.com/verdigris12/rldx-sub000/translit"
)

func alwaysValid(string) bool { return true }

func entryFor(path, displayFN, name string, source simhash.NameSource) simhash.Entry {
	norm := translit.Normalize(name)
	return simhash.Entry{
		Path:        path,
		DisplayFN:   displayFN,
		MatchedNorm: norm,
		SimHash:     simhash.SimHash(norm),
		Source:      source,
	}
}

func TestFinderFindsCloseFNMatch(t *testing.T) {
	t.Parallel()

	entries := []simhash.Entry{
		entryFor("/vdir/jane.vcf", "Jane Roe", "Jane Roe", simhash.SourceFN),
	}
	f := NewFinder(entries, 8, 0.85)

	cand, ok := f.Find("Jane Roe", nil, alwaysValid, alwaysValid)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if cand.Path != "/vdir/jane.vcf" || cand.Source != simhash.SourceFN {
		t.Fatalf("got %+v, want jane.vcf via FN", cand)
	}
}

func TestFinderRejectsDissimilarNames(t *testing.T) {
	t.Parallel()

	entries := []simhash.Entry{
		entryFor("/vdir/jane.vcf", "Jane Roe", "Jane Roe", simhash.SourceFN),
	}
	f := NewFinder(entries, 64, 0.98)

	if _, ok := f.Find("Bob Smith", nil, alwaysValid, alwaysValid); ok {
		t.Fatalf("expected no candidate for an unrelated name")
	}
}

func TestFinderPrefersFNOverNickname(t *testing.T) {
	t.Parallel()

	entries := []simhash.Entry{
		entryFor("/vdir/a.vcf", "Alice A", "Alice A", simhash.SourceNickname),
		entryFor("/vdir/b.vcf", "Alice B", "Alice A", simhash.SourceFN),
	}
	f := NewFinder(entries, 64, 0.80)

	cand, ok := f.Find("Alice A", nil, alwaysValid, alwaysValid)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if cand.Source != simhash.SourceFN || cand.Path != "/vdir/b.vcf" {
		t.Fatalf("got %+v, want the FN-sourced candidate to win", cand)
	}
}

func TestFinderChecksNicknamesWhenFNInvalid(t *testing.T) {
	t.Parallel()

	entries := []simhash.Entry{
		entryFor("/vdir/jane.vcf", "Jane Roe", "Janie", simhash.SourceNickname),
	}
	f := NewFinder(entries, 64, 0.85)

	noFN := func(string) bool { return false }
	cand, ok := f.Find("x", []string{"Janie"}, noFN, alwaysValid)
	if !ok {
		t.Fatalf("expected a nickname match")
	}
	if cand.Source != simhash.SourceNickname {
		t.Fatalf("got %+v, want a nickname-sourced candidate", cand)
	}
}

func TestFinderEmptyTreeReturnsNoCandidate(t *testing.T) {
	t.Parallel()

	f := NewFinder(nil, 8, 0.85)
	if _, ok := f.Find("Jane Roe", nil, alwaysValid, alwaysValid); ok {
		t.Fatalf("expected no candidate against an empty tree")
	}
}

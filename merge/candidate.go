/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package merge

import (
	"github.com/verdigris12/rldx-sub000/simhash"
	"github.com/verdigris12/rldx-sub000/translit"
)

// Candidate is a confirmed automerge target: an existing contact, its
// match score, and which name (FN or NICKNAME) produced the match.
type Candidate struct {
	Path      string
	DisplayFN string
	Score     float64
	Source    simhash.NameSource
}

// Finder bundles a prebuilt BK-tree with the thresholds a single import run
// checks candidates against. Grounded on
// original_source/src/import/simhash_index.rs's SimHashIndex plus the
// threshold pair find_merge_candidate takes as arguments.
type Finder struct {
	Tree             *simhash.Tree
	SimHashThreshold int
	JWThreshold      float64
}

// NewFinder builds a Finder over entries, the whole-index simhash rows
// fetched once per import run via index.DB.ListAllSimHashes.
func NewFinder(entries []simhash.Entry, simHashThreshold int, jwThreshold float64) *Finder {
	return &Finder{
		Tree:             simhash.NewTree(entries),
		SimHashThreshold: simHashThreshold,
		JWThreshold:      jwThreshold,
	}
}

// Find looks for a merge target for an incoming contact identified by
// fnValue and its nicknames, validating each name with isValidFN/
// isValidNickname before it is allowed to drive a lookup. FN matches beat
// nickname matches; ties break on score. Grounded on
// original_source/src/import/google.rs::find_merge_candidate.
func (f *Finder) Find(fnValue string, nicknames []string, isValidFN, isValidNickname func(string) bool) (Candidate, bool) {
	var all []Candidate

	if isValidFN(fnValue) {
		f.collect(fnValue, &all)
	}
	for _, nick := range nicknames {
		if isValidNickname(nick) {
			f.collect(nick, &all)
		}
	}

	if len(all) == 0 {
		return Candidate{}, false
	}

	best := all[0]
	for _, c := range all[1:] {
		if betterCandidate(c, best) {
			best = c
		}
	}
	return best, true
}

// betterCandidate reports whether a should replace b as the current best:
// FN-sourced candidates dominate nickname-sourced ones regardless of score,
// otherwise the higher score wins.
func betterCandidate(a, b Candidate) bool {
	if a.Source == simhash.SourceFN && b.Source != simhash.SourceFN {
		return true
	}
	if a.Source != simhash.SourceFN && b.Source == simhash.SourceFN {
		return false
	}
	return a.Score > b.Score
}

// collect runs the SimHash prefilter for name, verifies survivors with
// Jaro-Winkler, and folds them into results using the same
// dominance/replacement rule find_candidates' Rust counterpart applies: a
// path already matched by a stronger (or equally strong FN) candidate is
// not replaced by a weaker nickname hit, and a nickname hit is displaced by
// a later FN hit for the same path.
func (f *Finder) collect(name string, results *[]Candidate) {
	nameNorm := translit.Normalize(name)
	nameHash := simhash.SimHash(nameNorm)

	for _, entry := range f.Tree.FindCandidates(nameHash, f.SimHashThreshold) {
		score := JaroWinkler(nameNorm, entry.MatchedNorm)
		if score < f.JWThreshold {
			continue
		}

		dominated := false
		for _, r := range *results {
			if r.Path == entry.Path && (r.Source == simhash.SourceFN || entry.Source == simhash.SourceNickname) && r.Score >= score {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}

		var kept []Candidate
		for _, r := range *results {
			if r.Path == entry.Path && ((r.Source == simhash.SourceNickname && entry.Source == simhash.SourceFN) ||
				(!(r.Source == simhash.SourceFN && entry.Source == simhash.SourceNickname) && r.Score <= score)) {
				continue
			}
			kept = append(kept, r)
		}
		*results = append(kept, Candidate{
			Path:      entry.Path,
			DisplayFN: entry.DisplayFN,
			Score:     score,
			Source:    entry.Source,
		})
	}
}

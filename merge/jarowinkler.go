/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package merge

// JaroWinkler returns the Jaro-Winkler similarity of a and b, in [0, 1].
// No pack repo depends on a string-similarity library (the original uses
// the strsim crate's jaro_winkler), so this is hand-written against the
// textbook algorithm: Jaro distance plus a boosted-prefix adjustment.
func JaroWinkler(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	jaro := jaroSimilarity(ra, rb)
	if jaro == 0 {
		return 0
	}

	prefix := 0
	maxPrefix := len(ra)
	if len(rb) < maxPrefix {
		maxPrefix = len(rb)
	}
	if maxPrefix > 4 {
		maxPrefix = 4
	}
	for prefix < maxPrefix && ra[prefix] == rb[prefix] {
		prefix++
	}

	const scalingFactor = 0.1
	return jaro + float64(prefix)*scalingFactor*(1-jaro)
}

func jaroSimilarity(a, b []rune) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	matchDistance := la
	if lb > matchDistance {
		matchDistance = lb
	}
	matchDistance = matchDistance/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	aMatches := make([]bool, la)
	bMatches := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := i - matchDistance
		if start < 0 {
			start = 0
		}
		end := i + matchDistance + 1
		if end > lb {
			end = lb
		}
		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3
}

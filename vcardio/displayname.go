/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vcardio

import (
	"strconv"
	"strings"

	"github.com/emersion/go-vcard"
)

// unprefValued is the PREF a variant is treated as carrying when it has no
// PREF parameter at all, matching Rust's u8::MAX sentinel in
// original_source/rldx/src/indexer.rs::select_display_fn.
const unprefValued = 255

// SelectDisplayFN picks the display-worthy FN among possibly several
// PREF/LANGUAGE-tagged variants: lowest PREF wins, ties broken in favor of a
// LANGUAGE match against preferredLanguage, first-in-file-order otherwise.
// Falls back to "Unnamed" when the card has no FN at all. Grounded on
// original_source/rldx/src/indexer.rs::select_display_fn.
func SelectDisplayFN(card vcard.Card, preferredLanguage string) (value, language string) {
	fields := card[vcard.FieldFormattedName]
	if len(fields) == 0 {
		return "Unnamed", ""
	}

	bestIndex := -1
	bestPref := unprefValued + 1
	bestLangMatch := false

	for i, f := range fields {
		pref := fieldPref(f)
		lang := fieldLanguage(f)
		langMatch := preferredLanguage != "" && strings.EqualFold(lang, preferredLanguage)

		replace := bestIndex == -1 ||
			pref < bestPref ||
			(pref == bestPref && langMatch && !bestLangMatch)
		if replace {
			bestIndex = i
			bestPref = pref
			bestLangMatch = langMatch
		}
	}

	best := fields[bestIndex]
	return best.Value, fieldLanguage(best)
}

func fieldPref(f *vcard.Field) int {
	if f.Params == nil {
		return unprefValued
	}
	values := f.Params[vcard.ParamPref]
	if len(values) == 0 {
		return unprefValued
	}
	pref, err := strconv.Atoi(values[0])
	if err != nil {
		return unprefValued
	}
	return pref
}

func fieldLanguage(f *vcard.Field) string {
	if f.Params == nil {
		return ""
	}
	values := f.Params[vcard.ParamLanguage]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

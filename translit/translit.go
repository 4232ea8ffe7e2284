/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package translit

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinScripts are the Unicode range tables IsAllLatin/DetectNonLatinScript
// treat as "doesn't need transliteration", mirroring
// Script::Latin | Script::Common | Script::Inherited in the original.
var latinScripts = []*unicode.RangeTable{
	unicode.Latin,
	unicode.Common,
	unicode.Mn, // combining marks, Rust's "Inherited" script bucket
}

// IsAllLatin reports whether s contains only ASCII, Latin, Common, or
// combining-mark runes — i.e. text that does not need transliteration.
func IsAllLatin(s string) bool {
	for _, r := range s {
		if r < unicode.MaxASCII && r >= 0 {
			continue
		}
		if !unicode.IsOneOf(latinScripts, r) {
			return false
		}
	}
	return true
}

// scriptEntry pairs a script's range table with its name and BCP 47 tag,
// in the priority order scripts are tested.
type scriptEntry struct {
	name  string
	table *unicode.RangeTable
	lang  string
}

var scripts = []scriptEntry{
	{"Cyrillic", unicode.Cyrillic, "ru"},
	{"Arabic", unicode.Arabic, "ar"},
	{"Han", unicode.Han, "zh"},
	{"Hiragana", unicode.Hiragana, "ja"},
	{"Katakana", unicode.Katakana, "ja"},
	{"Hangul", unicode.Hangul, "ko"},
	{"Greek", unicode.Greek, "el"},
	{"Hebrew", unicode.Hebrew, "he"},
	{"Thai", unicode.Thai, "th"},
	{"Devanagari", unicode.Devanagari, "hi"},
	{"Armenian", unicode.Armenian, "hy"},
	{"Georgian", unicode.Georgian, "ka"},
	{"Bengali", unicode.Bengali, "bn"},
	{"Tamil", unicode.Tamil, "ta"},
	{"Telugu", unicode.Telugu, "te"},
	{"Gujarati", unicode.Gujarati, "gu"},
	{"Kannada", unicode.Kannada, "kn"},
	{"Malayalam", unicode.Malayalam, "ml"},
	{"Oriya", unicode.Oriya, "or"},
	{"Gurmukhi", unicode.Gurmukhi, "pa"},
	{"Sinhala", unicode.Sinhala, "si"},
	{"Myanmar", unicode.Myanmar, "my"},
	{"Khmer", unicode.Khmer, "km"},
	{"Lao", unicode.Lao, "lo"},
	{"Tibetan", unicode.Tibetan, "bo"},
	{"Ethiopic", unicode.Ethiopic, "am"},
}

// DetectNonLatinScript returns the name of the first non-Latin script found
// in s, or "" if s is all-Latin. Grounded on
// original_source/src/translit.rs::detect_non_latin_script.
func DetectNonLatinScript(s string) string {
	for _, r := range s {
		if r < unicode.MaxASCII || unicode.IsOneOf(latinScripts, r) {
			continue
		}
		for _, entry := range scripts {
			if unicode.Is(entry.table, r) {
				return entry.name
			}
		}
		return "Unknown"
	}
	return ""
}

// ScriptToLang maps a script name (as returned by DetectNonLatinScript) to
// its BCP 47 language tag, or "und" if unrecognized.
func ScriptToLang(script string) string {
	for _, entry := range scripts {
		if entry.name == script {
			return entry.lang
		}
	}
	return "und"
}

var diacriticStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate folds s toward ASCII: NFKD-decomposes accented Latin
// characters and drops the resulting combining marks, then collapses
// whitespace. Non-Latin scripts pass through unchanged (aside from
// whitespace collapsing) since no phonetic transliteration table is
// available; see the package doc comment.
func Transliterate(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// Normalize lowercases the transliterated form of s, for use as a search
// key. Grounded on original_source/src/search.rs::normalize.
func Normalize(s string) string {
	return strings.ToLower(Transliterate(s))
}

// NormalizeQuery trims and normalizes a user-entered query string, returning
// "" if the query is empty after trimming.
func NormalizeQuery(query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return ""
	}
	return Normalize(trimmed)
}

// LikePattern escapes SQL LIKE metacharacters in a normalized string and
// wraps it for substring matching.
func LikePattern(normalized string) string {
	escaped := strings.NewReplacer("%", "\\%", "_", "\\_").Replace(normalized)
	return "%" + escaped + "%"
}

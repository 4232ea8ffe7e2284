/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vcardio

import (
	"testing"

	"github.com/emersion/go-vcard"
)

func TestSelectDisplayFNPrefersLowestPref(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card[vcard.FieldFormattedName] = []*vcard.Field{
		{Value: "Johnny", Params: vcard.Params{vcard.ParamPref: []string{"2"}}},
		{Value: "John", Params: vcard.Params{vcard.ParamPref: []string{"1"}}},
	}

	value, _ := SelectDisplayFN(card, "")
	if value != "John" {
		t.Fatalf("got %q, want John", value)
	}
}

func TestSelectDisplayFNBreaksTieOnLanguageMatch(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card[vcard.FieldFormattedName] = []*vcard.Field{
		{Value: "Jean", Params: vcard.Params{vcard.ParamLanguage: []string{"fr"}}},
		{Value: "John", Params: vcard.Params{vcard.ParamLanguage: []string{"en"}}},
	}

	value, lang := SelectDisplayFN(card, "en")
	if value != "John" || lang != "en" {
		t.Fatalf("got %q/%q, want John/en", value, lang)
	}
}

func TestSelectDisplayFNFallsBackToFirstWhenNoPref(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card[vcard.FieldFormattedName] = []*vcard.Field{
		{Value: "First"},
		{Value: "Second"},
	}

	value, _ := SelectDisplayFN(card, "")
	if value != "First" {
		t.Fatalf("got %q, want First", value)
	}
}

func TestSelectDisplayFNReturnsUnnamedWhenAbsent(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")

	value, lang := SelectDisplayFN(card, "")
	if value != "Unnamed" || lang != "" {
		t.Fatalf("got %q/%q, want Unnamed/\"\"", value, lang)
	}
}

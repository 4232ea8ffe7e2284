/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vcardio wraps github.com/emersion/go-vcard with the canonicalizer
// operations the core needs: UID ensuring, REV touching, E.164 phone
// normalization, and version checking. Grounded on
// original_source/src/vcard_io.rs and on other_examples' arjungandhi-contacts
// EncodeCard/DecodeCard helpers.
package vcardio

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// revLayout mirrors the vCard date-and-or-time basic form used by
// DateTime::now_utc() in original_source/src/vcard_io.rs::touch_rev.
const revLayout = "20060102T150405Z"

// unknownRegion is phonenumbers' token for "no known region", the Go
// library's counterpart to RegionCode::get_unknown() in the original.
const unknownRegion = "ZZ"

// DecodeCard deserializes VCF bytes into a vcard.Card.
func DecodeCard(data []byte) (vcard.Card, error) {
	dec := vcard.NewDecoder(bytes.NewReader(data))
	card, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to parse vcard: %w", err)
	}
	return card, nil
}

// DecodeCards splits data on BEGIN:VCARD/END:VCARD blocks and decodes every
// card found. Returns ErrNoCards if none are present.
func DecodeCards(data []byte) ([]vcard.Card, error) {
	dec := vcard.NewDecoder(bytes.NewReader(data))
	var cards []vcard.Card
	for {
		card, err := dec.Decode()
		if err != nil {
			break
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

// EncodeCard serializes a vcard.Card to canonical VCF bytes (CRLF line
// endings, trailing CRLF after END:VCARD — go-vcard's encoder already
// produces CRLF terminated lines).
func EncodeCard(card vcard.Card) ([]byte, error) {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)
	if err := enc.Encode(card); err != nil {
		return nil, fmt.Errorf("failed to encode vcard: %w", err)
	}
	return buf.Bytes(), nil
}

// CardUID returns the UID property's value, or "" if absent.
func CardUID(card vcard.Card) string {
	return card.Value(vcard.FieldUID)
}

// IsV4 reports whether the card's VERSION property is exactly "4.0".
func IsV4(card vcard.Card) bool {
	return card.Value(vcard.FieldVersion) == "4.0"
}

// EnsureUUIDUID ensures the card has a UID that parses as a UUID, generating
// a fresh v4 UUID when absent or malformed. Returns the UUID now stored.
func EnsureUUIDUID(card vcard.Card) (uuid.UUID, error) {
	if existing := CardUID(card); existing != "" {
		if id, err := uuid.Parse(existing); err == nil {
			return id, nil
		}
	}
	id := uuid.New()
	card.SetValue(vcard.FieldUID, id.String())
	return id, nil
}

// TouchRev sets REV to the current UTC timestamp in vCard
// date-and-or-time form.
func TouchRev(card vcard.Card, now time.Time) {
	card.SetValue(vcard.FieldRevision, now.UTC().Format(revLayout))
}

// NormalizePhoneNumbers rewrites every TEL value on the card to E.164 form
// when it can be parsed against defaultRegion or the unknown region.
// Reports whether any value changed.
func NormalizePhoneNumbers(card vcard.Card, defaultRegion string) bool {
	fields := card[vcard.FieldTelephone]
	changed := false
	for _, f := range fields {
		normalized, ok := normalizePhoneValue(f.Value, defaultRegion)
		if ok && normalized != f.Value {
			f.Value = normalized
			changed = true
		}
	}
	return changed
}

func normalizePhoneValue(raw string, defaultRegion string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	hadScheme, remainder := stripTelScheme(trimmed)

	if remainder == "" {
		return "", false
	}

	if normalized, ok := parseWithRegions(remainder, defaultRegion); ok {
		if hadScheme {
			return "tel:" + normalized, true
		}
		return normalized, true
	}

	return raw, false
}

func parseWithRegions(input string, defaultRegion string) (string, bool) {
	candidates := make([]string, 0, 2)
	if defaultRegion != "" {
		candidates = append(candidates, defaultRegion)
	}

	hasUnknown := false
	for _, c := range candidates {
		if strings.EqualFold(c, unknownRegion) {
			hasUnknown = true
			break
		}
	}
	if !hasUnknown {
		candidates = append(candidates, unknownRegion)
	}

	for _, region := range candidates {
		num, err := phonenumbers.Parse(input, region)
		if err == nil {
			return formatParsedNumber(num), true
		}
	}
	return "", false
}

func formatParsedNumber(num *phonenumbers.PhoneNumber) string {
	formatted := phonenumbers.Format(num, phonenumbers.E164)
	if ext := num.GetExtension(); ext != "" {
		formatted += ";ext=" + ext
	}
	return formatted
}

func hasTelScheme(value string) bool {
	if len(value) < 4 {
		return false
	}
	return strings.EqualFold(value[:4], "tel:")
}

func stripTelScheme(value string) (bool, string) {
	if hasTelScheme(value) {
		return true, strings.TrimSpace(value[4:])
	}
	return false, value
}

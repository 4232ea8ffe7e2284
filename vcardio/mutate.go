/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vcardio

import (
	"strings"

	"github.com/emersion/go-vcard"
)

// UpdateField rewrites the value of the seq'th instance of field (TEL,
// EMAIL, FN, NICKNAME) on the card. Returns false if no such instance
// exists. Grounded on original_source/src/vcard_io.rs::update_card_field;
// this is the contract a future interactive front-end programs against,
// out of scope for the core but named here as §9 of SPEC_FULL.md requires.
func UpdateField(card vcard.Card, field string, seq int, newValue string, defaultRegion string) bool {
	field = strings.ToUpper(field)
	fields := card[field]
	if seq < 0 || seq >= len(fields) {
		return false
	}

	switch field {
	case vcard.FieldTelephone:
		normalized, ok := normalizePhoneValue(newValue, defaultRegion)
		if !ok {
			normalized = strings.TrimSpace(newValue)
		}
		fields[seq].Value = normalized
	default:
		fields[seq].Value = strings.TrimSpace(newValue)
	}
	return true
}

// PromoteEntry moves the index'th instance of field to position 0 (seq 0
// becomes the "primary" instance per the data model's seq==0 convention).
func PromoteEntry(card vcard.Card, field string, index int) bool {
	field = strings.ToUpper(field)
	fields := card[field]
	if index < 0 || index >= len(fields) {
		return false
	}
	if index == 0 {
		return true
	}
	entry := fields[index]
	copy(fields[1:index+1], fields[0:index])
	fields[0] = entry
	card[field] = fields
	return true
}

// DeleteField removes the seq'th instance of field. Returns false if absent.
func DeleteField(card vcard.Card, field string, seq int) bool {
	field = strings.ToUpper(field)
	fields := card[field]
	if seq < 0 || seq >= len(fields) {
		return false
	}
	card[field] = append(fields[:seq], fields[seq+1:]...)
	return true
}

// AddField appends a new instance of field with an optional TYPE parameter.
// Returns false for an empty (post-trim) value.
func AddField(card vcard.Card, field string, value string, typeParam string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	field = strings.ToUpper(field)
	f := &vcard.Field{Value: trimmed}
	if typeParam != "" {
		f.Params = vcard.Params{vcard.ParamType: []string{typeParam}}
	}
	card[field] = append(card[field], f)
	return true
}

// SetPhoto replaces all PHOTO properties with a single data-URI entry.
func SetPhoto(card vcard.Card, dataURI string) {
	card[vcard.FieldPhoto] = []*vcard.Field{{Value: dataURI}}
}

// DeletePhoto removes every PHOTO property.
func DeletePhoto(card vcard.Card) {
	delete(card, vcard.FieldPhoto)
}

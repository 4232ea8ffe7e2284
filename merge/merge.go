/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package merge

import (
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	"github.com/verdigris12/rldx-sub000/vcardio"
)

// IntoExisting folds source's EMAIL, TEL, and NICKNAME values into existing,
// skipping anything already present (case-insensitive for EMAIL/NICKNAME,
// exact for TEL), and promotes any additional FN values on source beyond
// its primary one into NICKNAME entries on existing. Returns whether
// existing was modified; callers should only re-encode and rewrite the
// vdir file when true. Grounded on
// original_source/src/import/google.rs::merge_card_into_existing.
func IntoExisting(existing, source vcard.Card, now time.Time) bool {
	changed := false

	existingEmails := lowerSet(existing[vcard.FieldEmail])
	for _, f := range source[vcard.FieldEmail] {
		if existingEmails[strings.ToLower(f.Value)] {
			continue
		}
		existing[vcard.FieldEmail] = append(existing[vcard.FieldEmail], cloneField(f))
		existingEmails[strings.ToLower(f.Value)] = true
		changed = true
	}

	existingPhones := valueSet(existing[vcard.FieldTelephone])
	for _, f := range source[vcard.FieldTelephone] {
		if existingPhones[f.Value] {
			continue
		}
		existing[vcard.FieldTelephone] = append(existing[vcard.FieldTelephone], cloneField(f))
		existingPhones[f.Value] = true
		changed = true
	}

	existingNicknames := lowerSet(existing[vcard.FieldNickname])
	for _, f := range source[vcard.FieldNickname] {
		lower := strings.ToLower(f.Value)
		if existingNicknames[lower] {
			continue
		}
		existing[vcard.FieldNickname] = append(existing[vcard.FieldNickname], cloneField(f))
		existingNicknames[lower] = true
		changed = true
	}

	cardFN := ""
	if fields := existing[vcard.FieldFormattedName]; len(fields) > 0 {
		cardFN = strings.ToLower(fields[0].Value)
	}
	sourceFNs := source[vcard.FieldFormattedName]
	for i := 1; i < len(sourceFNs); i++ {
		lower := strings.ToLower(sourceFNs[i].Value)
		if lower == cardFN || existingNicknames[lower] {
			continue
		}
		existing[vcard.FieldNickname] = append(existing[vcard.FieldNickname], &vcard.Field{Value: sourceFNs[i].Value})
		existingNicknames[lower] = true
		changed = true
	}

	if changed {
		vcardio.TouchRev(existing, now)
	}
	return changed
}

func lowerSet(fields []*vcard.Field) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[strings.ToLower(f.Value)] = true
	}
	return out
}

func valueSet(fields []*vcard.Field) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f.Value] = true
	}
	return out
}

func cloneField(f *vcard.Field) *vcard.Field {
	clone := &vcard.Field{Value: f.Value, Group: f.Group}
	if f.Params != nil {
		clone.Params = make(vcard.Params, len(f.Params))
		for k, v := range f.Params {
			cp := make([]string, len(v))
			copy(cp, v)
			clone.Params[k] = cp
		}
	}
	return clone
}

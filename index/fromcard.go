/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/verdigris12/rldx-sub000/vcardio"
)

// textFields lists every vCard property indexed as a row via a direct
// value copy, with no field-specific transform. Grounded on
// original_source/rldx/src/indexer.rs::build_record's collect_name_props
// through collect_misc_props (every collector that isn't FN, ADR, or an
// X- extension, which need their own handling below).
var textFields = []string{
	vcard.FieldName,
	vcard.FieldNickname,
	vcard.FieldOrganization,
	vcard.FieldTitle,
	vcard.FieldRole,
	vcard.FieldEmail,
	vcard.FieldTelephone,
	vcard.FieldURL,
	vcard.FieldNote,
	vcard.FieldRelated,
	vcard.FieldPhoto,
	vcard.FieldLogo,
	vcard.FieldKind,
	vcard.FieldBirthday,
	vcard.FieldAnniversary,
	vcard.FieldGender,
	vcard.FieldIMPP,
	vcard.FieldMember,
	vcard.FieldCategories,
}

// ItemAndPropsFromCard builds the IndexedItem/IndexedProp rows a normalized
// card contributes to the index, given its vdir path and on-disk state.
func ItemAndPropsFromCard(card vcard.Card, path string, sha1 [20]byte, mtime int64) (IndexedItem, []IndexedProp) {
	displayFN, _ := vcardio.SelectDisplayFN(card, "")

	item := IndexedItem{
		UUID:     CardUID(card),
		Path:     path,
		FN:       displayFN,
		Rev:      card.Value(vcard.FieldRevision),
		HasPhoto: len(card[vcard.FieldPhoto]) > 0,
		HasLogo:  len(card[vcard.FieldLogo]) > 0,
		SHA1:     sha1,
		MTime:    mtime,
	}

	counters := make(map[string]int64)
	var props []IndexedProp

	// Every FN variant is indexed, not just the one select_display_fn picks.
	for _, f := range card[vcard.FieldFormattedName] {
		props = appendProp(props, counters, vcard.FieldFormattedName, f.Value, f.Params)
	}

	for _, field := range textFields {
		for _, f := range card[field] {
			props = appendProp(props, counters, field, f.Value, f.Params)
		}
	}

	// ADR prefers a LABEL parameter over the raw structured value, matching
	// indexer.rs::collect_address_props.
	for _, f := range card[vcard.FieldAddress] {
		value := f.Value
		if label := firstParam(f.Params, vcard.ParamLabel); label != "" {
			value = label
		}
		props = appendProp(props, counters, vcard.FieldAddress, value, f.Params)
	}

	props = append(props, extensionProps(card, counters)...)

	return item, props
}

// extensionProps indexes every X- prefixed property, matching
// indexer.rs::collect_extension_props. Card keys are walked in sorted order
// so repeated Reindex passes produce a stable prop sequence.
func extensionProps(card vcard.Card, counters map[string]int64) []IndexedProp {
	var fields []string
	for field := range card {
		if strings.HasPrefix(field, "X-") {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	var props []IndexedProp
	for _, field := range fields {
		for _, f := range card[field] {
			props = appendProp(props, counters, field, f.Value, f.Params)
		}
	}
	return props
}

func appendProp(props []IndexedProp, counters map[string]int64, field, value string, params vcard.Params) []IndexedProp {
	seq := counters[field]
	counters[field] = seq + 1

	encoded, _ := json.Marshal(params)
	return append(props, IndexedProp{
		Field:  field,
		Value:  value,
		Params: string(encoded),
		Seq:    seq,
	})
}

func firstParam(params vcard.Params, name string) string {
	if params == nil {
		return ""
	}
	values := params[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// CardUID is a thin wrapper over the raw UID field, matching
// vcardio.CardUID's contract, kept local so callers that only need the UID
// don't have to reach past this package.
func CardUID(card vcard.Card) string {
	return card.Value(vcard.FieldUID)
}

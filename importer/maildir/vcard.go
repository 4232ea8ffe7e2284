/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"github.com/emersion/go-vcard"
)

// createVCard builds a vCard 4.0 card for one extracted contact: FN and
// EMAIL from the primary address, every alias as a NICKNAME. Grounded on
// original_source/src/import/maildir.rs::create_vcard.
func createVCard(contact *ExtractedContact) vcard.Card {
	card := vcard.Card{}
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldFormattedName, contact.PrimaryName)
	card.SetValue(vcard.FieldEmail, contact.Email)

	for alias := range contact.Aliases {
		card.Add(vcard.FieldNickname, &vcard.Field{Value: alias})
	}
	return card
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import (
	"testing"

	"github.com/emersion/go-vcard"
)

func fieldCounts(props []IndexedProp) map[string]int {
	counts := make(map[string]int)
	for _, p := range props {
		counts[p.Field]++
	}
	return counts
}

func TestItemAndPropsFromCardIndexesAllCollectorFields(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldUID, "uuid-1")
	card.AddValue(vcard.FieldFormattedName, "Jane Roe")
	card.AddValue(vcard.FieldName, "Roe;Jane;;;")
	card.AddValue(vcard.FieldNickname, "Janie")
	card.AddValue(vcard.FieldOrganization, "Acme")
	card.AddValue(vcard.FieldTitle, "Engineer")
	card.AddValue(vcard.FieldRole, "Contributor")
	card.AddValue(vcard.FieldEmail, "jane@example.com")
	card.AddValue(vcard.FieldTelephone, "+14155550132")
	card.AddValue(vcard.FieldURL, "https://example.com")
	card.AddValue(vcard.FieldNote, "met at a conference")
	card.AddValue(vcard.FieldRelated, "urn:uuid:other")
	card.AddValue(vcard.FieldPhoto, "data:image/jpeg;base64,AAAA")
	card.AddValue(vcard.FieldLogo, "data:image/png;base64,BBBB")
	card.AddValue(vcard.FieldKind, "individual")
	card.AddValue(vcard.FieldBirthday, "19900101")
	card.AddValue(vcard.FieldAnniversary, "20150601")
	card.AddValue(vcard.FieldGender, "F")
	card.AddValue(vcard.FieldIMPP, "xmpp:jane@example.com")
	card.AddValue(vcard.FieldMember, "urn:uuid:group-member")
	card.AddValue(vcard.FieldCategories, "friends")
	card.AddValue(vcard.FieldAddress, ";;123 Main St;Anytown;CA;00000;US")
	card.AddValue("X-CUSTOM-FIELD", "custom value")

	item, props := ItemAndPropsFromCard(card, "/vdir/jane.vcf", [20]byte{1}, 1700000000)

	if item.UUID != "uuid-1" {
		t.Fatalf("got UUID %q, want uuid-1", item.UUID)
	}
	if item.FN != "Jane Roe" {
		t.Fatalf("got FN %q, want Jane Roe", item.FN)
	}
	if !item.HasPhoto || !item.HasLogo {
		t.Fatalf("expected HasPhoto and HasLogo to be true")
	}

	counts := fieldCounts(props)
	wantFields := []string{
		vcard.FieldFormattedName,
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
		vcard.FieldAddress,
		"X-CUSTOM-FIELD",
	}
	for _, field := range wantFields {
		if counts[field] != 1 {
			t.Fatalf("got %d props for %s, want 1 (props=%+v)", counts[field], field, props)
		}
	}
}

func TestItemAndPropsFromCardIndexesEveryFNVariant(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldUID, "uuid-1")
	card[vcard.FieldFormattedName] = []*vcard.Field{
		{Value: "Jane Roe", Params: vcard.Params{vcard.ParamPref: []string{"1"}}},
		{Value: "Jeanne Roe", Params: vcard.Params{vcard.ParamLanguage: []string{"fr"}}},
	}

	item, props := ItemAndPropsFromCard(card, "/vdir/jane.vcf", [20]byte{}, 0)

	if item.FN != "Jane Roe" {
		t.Fatalf("got display FN %q, want Jane Roe", item.FN)
	}

	var fnProps []IndexedProp
	for _, p := range props {
		if p.Field == vcard.FieldFormattedName {
			fnProps = append(fnProps, p)
		}
	}
	if len(fnProps) != 2 {
		t.Fatalf("got %d FN props, want 2 (both variants indexed)", len(fnProps))
	}
	if fnProps[0].Seq != 0 || fnProps[1].Seq != 1 {
		t.Fatalf("expected FN props sequenced 0,1, got %+v", fnProps)
	}
}

func TestItemAndPropsFromCardPrefersAddressLabel(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldUID, "uuid-1")
	card[vcard.FieldAddress] = []*vcard.Field{
		{
			Value:  ";;123 Main St;Anytown;CA;00000;US",
			Params: vcard.Params{vcard.ParamLabel: []string{"123 Main St\nAnytown, CA 00000"}},
		},
	}

	_, props := ItemAndPropsFromCard(card, "/vdir/jane.vcf", [20]byte{}, 0)

	var found bool
	for _, p := range props {
		if p.Field == vcard.FieldAddress {
			found = true
			if p.Value != "123 Main St\nAnytown, CA 00000" {
				t.Fatalf("got address value %q, want the LABEL value", p.Value)
			}
		}
	}
	if !found {
		t.Fatalf("expected an ADR prop to be indexed")
	}
}

func TestItemAndPropsFromCardSortsExtensionFields(t *testing.T) {
	t.Parallel()

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "4.0")
	card.SetValue(vcard.FieldUID, "uuid-1")
	card.AddValue("X-ZEBRA", "z")
	card.AddValue("X-APPLE", "a")

	_, props := ItemAndPropsFromCard(card, "/vdir/jane.vcf", [20]byte{}, 0)

	var order []string
	for _, p := range props {
		if p.Field == "X-ZEBRA" || p.Field == "X-APPLE" {
			order = append(order, p.Field)
		}
	}
	if len(order) != 2 || order[0] != "X-APPLE" || order[1] != "X-ZEBRA" {
		t.Fatalf("got extension order %v, want [X-APPLE X-ZEBRA]", order)
	}
}

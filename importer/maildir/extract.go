/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package maildir

import (
	"net/mail"
	"os"
	"strings"
)

// addressHit is one (email, display name, fromHeader) tuple extracted from
// a single message's headers.
type addressHit struct {
	email   string
	name    string
	fromHdr bool
}

// ExtractedContact accumulates every display name seen for one email
// address across a maildir: primaryName is the best name so far
// (From-header names always win), aliases holds every other distinct name.
// Grounded on original_source/src/import/maildir.rs::ExtractedContact.
type ExtractedContact struct {
	Email       string
	PrimaryName string
	Aliases     map[string]bool
	fromHeader  bool
}

var headerNames = []string{"To", "Cc", "Reply-To"}

// processSingleEmail parses one message file and returns every valid
// (email, name, fromHeader) hit across its From/To/Cc/Reply-To headers.
// Grounded on
// original_source/src/import/maildir.rs::process_single_email/
// extract_addresses_to_vec. net/mail is stdlib's RFC 5322 message/address
// parser; no pack repo imports a third-party mail-parsing library, so this
// is the corpus's own idiom for anything MIME/email-adjacent (see
// DESIGN.md).
func processSingleEmail(path string) []addressHit {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	msg, err := mail.ReadMessage(strings.NewReader(string(data)))
	if err != nil {
		return nil
	}

	var hits []addressHit
	if from := msg.Header.Get("From"); from != "" {
		hits = append(hits, extractAddresses(from, true)...)
	}
	for _, h := range headerNames {
		if value := msg.Header.Get(h); value != "" {
			hits = append(hits, extractAddresses(value, false)...)
		}
	}
	return hits
}

func extractAddresses(headerValue string, fromHdr bool) []addressHit {
	addrs, err := mail.ParseAddressList(headerValue)
	if err != nil {
		return nil
	}
	var hits []addressHit
	for _, addr := range addrs {
		name := cleanName(addr.Name)
		email := strings.ToLower(strings.TrimSpace(addr.Address))
		if isValidContact(email, name) {
			hits = append(hits, addressHit{email: email, name: name, fromHdr: fromHdr})
		}
	}
	return hits
}

// cleanName trims whitespace and strips one layer of surrounding matching
// quotes (single or double). Grounded on
// original_source/src/import/maildir.rs::clean_name.
func cleanName(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= 2 {
		if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
			return strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		}
		if strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
			return strings.TrimSpace(trimmed[1 : len(trimmed)-1])
		}
	}
	return trimmed
}

// isValidContact rejects addresses with no name, names that are just the
// email address repeated, or names containing "@". Grounded on
// original_source/src/import/maildir.rs::is_valid_contact.
func isValidContact(email, name string) bool {
	if email == "" || name == "" {
		return false
	}
	lowerName := strings.ToLower(name)
	if lowerName == strings.ToLower(email) {
		return false
	}
	if strings.Contains(name, "@") {
		return false
	}
	return len([]rune(name)) >= 2
}

// mergeContactEntry folds one address hit into the accumulator map,
// preferring a From-header name as primary and demoting any displaced
// primary name to an alias. Grounded on
// original_source/src/import/maildir.rs::merge_contact_entry.
func mergeContactEntry(contacts map[string]*ExtractedContact, hit addressHit) {
	existing, ok := contacts[hit.email]
	if !ok {
		contacts[hit.email] = &ExtractedContact{
			Email:       hit.email,
			PrimaryName: hit.name,
			Aliases:     map[string]bool{},
			fromHeader:  hit.fromHdr,
		}
		return
	}

	switch {
	case hit.fromHdr && !existing.fromHeader && hit.name != existing.PrimaryName:
		existing.Aliases[existing.PrimaryName] = true
		existing.PrimaryName = hit.name
		existing.fromHeader = true
	case hit.name != existing.PrimaryName:
		existing.Aliases[hit.name] = true
	}
}

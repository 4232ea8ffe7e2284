/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package index

import "github.com/verdigris12/rldx-sub000/simhash"

// IndexedItem mirrors one row of the items table: the indexed summary of a
// single vdir contact file. Grounded on
// original_source/src/db.rs::IndexedItem.
type IndexedItem struct {
	UUID      string
	Path      string
	FN        string
	FNNorm    string
	FNSimhash uint64
	Rev       string
	HasPhoto  bool
	HasLogo   bool
	SHA1      [20]byte
	MTime     int64
	LangPref  string
}

// IndexedProp mirrors one row of the props table: a single vCard property
// instance belonging to an indexed item.
type IndexedProp struct {
	Field  string
	Value  string
	Params string // JSON-encoded map[string][]string
	Seq    int64
}

// StoredItem is the minimal (path, content hash) pair used to decide which
// vdir files need reindexing.
type StoredItem struct {
	Path string
	SHA1 [20]byte
}

// ContactListEntry is a row returned by ListContacts.
type ContactListEntry struct {
	UUID       string
	DisplayFN  string
	Path       string
	PrimaryOrg string
	Kind       string
}

// PropRow is a row returned by GetProps.
type PropRow struct {
	Field  string
	Value  string
	Params string
	Seq    int64
}

// QueryResult is a row returned by QueryEmails, shaped for abook-compatible
// consumers.
type QueryResult struct {
	Email     string
	DisplayFN string
	Notes     string
}

// simHashEntriesOf adapts one simhashes row (an FN or NICKNAME name of a
// contact) into a simhash.Entry value for BK-tree construction.
func simHashEntriesOf(path, displayFN, valueNorm string, hash uint64, source string) simhash.Entry {
	return simhash.Entry{
		Path:        path,
		DisplayFN:   displayFN,
		MatchedNorm: valueNorm,
		SimHash:     hash,
		Source:      simhash.ParseNameSource(source),
	}
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package syncengine

import (
	"context"
	"fmt"

	"github.com/emersion/go-vcard"
)

// fakeRemote is an in-memory Remote used to exercise Engine without a live
// CardDAV server, mirroring original_source/src/remote/mod.rs's test
// doubles for the `Remote` trait.
type fakeRemote struct {
	cards     map[string]vcard.Card
	etags     map[string]string
	nextETag  int
	deletions []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		cards: map[string]vcard.Card{},
		etags: map[string]string{},
	}
}

func (f *fakeRemote) seed(path string, card vcard.Card, etag string) {
	f.cards[path] = card
	f.etags[path] = etag
}

func (f *fakeRemote) List(ctx context.Context) ([]RemoteSummary, error) {
	out := make([]RemoteSummary, 0, len(f.cards))
	for path := range f.cards {
		out = append(out, RemoteSummary{Path: path, ETag: f.etags[path]})
	}
	return out, nil
}

func (f *fakeRemote) FetchMany(ctx context.Context, paths []string) ([]RemoteContact, error) {
	out := make([]RemoteContact, 0, len(paths))
	for _, p := range paths {
		card, ok := f.cards[p]
		if !ok {
			continue
		}
		out = append(out, RemoteContact{Path: p, ETag: f.etags[p], Card: card})
	}
	return out, nil
}

func (f *fakeRemote) Put(ctx context.Context, path string, card vcard.Card) (string, error) {
	f.nextETag++
	etag := fmt.Sprintf("etag-%d", f.nextETag)
	f.cards[path] = card
	f.etags[path] = etag
	return etag, nil
}

func (f *fakeRemote) Delete(ctx context.Context, path string) error {
	if _, ok := f.cards[path]; !ok {
		return fmt.Errorf("not found: %s", path)
	}
	delete(f.cards, path)
	delete(f.etags, path)
	f.deletions = append(f.deletions, path)
	return nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package syncengine

import (
	"context"

	"github.com/emersion/go-vcard"

	"github.com/verdigris12/rldx-sub000/remote/carddav"
)

// RemoteSummary is one remote contact's path and ETag.
type RemoteSummary struct {
	Path string
	ETag string
}

// RemoteContact is one fully-fetched remote vCard.
type RemoteContact struct {
	Path string
	ETag string
	Card vcard.Card
}

// Remote is the CardDAV surface the engine needs: list every contact's
// path/ETag, batch-fetch bodies, upload, and delete. Grounded on
// original_source/src/remote/mod.rs's `Remote` trait (list_contacts/
// fetch_contacts/upload_contact/delete_contact). An interface rather than a
// concrete carddav.Client so the engine can be exercised against a fake in
// tests without a live server.
type Remote interface {
	List(ctx context.Context) ([]RemoteSummary, error)
	FetchMany(ctx context.Context, paths []string) ([]RemoteContact, error)
	Put(ctx context.Context, path string, card vcard.Card) (string, error)
	Delete(ctx context.Context, path string) error
}

// carddavRemote adapts *carddav.Client to the Remote interface.
type carddavRemote struct {
	client *carddav.Client
}

// NewCardDAVRemote wraps an already-dialed CardDAV client for use by Sync.
func NewCardDAVRemote(client *carddav.Client) Remote {
	return &carddavRemote{client: client}
}

func (r *carddavRemote) List(ctx context.Context) ([]RemoteSummary, error) {
	summaries, err := r.client.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RemoteSummary, len(summaries))
	for i, s := range summaries {
		out[i] = RemoteSummary{Path: s.Path, ETag: s.ETag}
	}
	return out, nil
}

func (r *carddavRemote) FetchMany(ctx context.Context, paths []string) ([]RemoteContact, error) {
	contacts, err := r.client.FetchMany(ctx, paths)
	if err != nil {
		return nil, err
	}
	out := make([]RemoteContact, len(contacts))
	for i, c := range contacts {
		out[i] = RemoteContact{Path: c.Path, ETag: c.ETag, Card: c.Card}
	}
	return out, nil
}

func (r *carddavRemote) Put(ctx context.Context, path string, card vcard.Card) (string, error) {
	return r.client.Put(ctx, path, card)
}

func (r *carddavRemote) Delete(ctx context.Context, path string) error {
	return r.client.Delete(ctx, path)
}

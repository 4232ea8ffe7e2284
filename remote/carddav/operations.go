/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package carddav

import (
	"context"
	"fmt"

	"github.com/emersion/go-vcard"
	davcard "github.com/emersion/go-webdav/carddav"
)

// Summary is one remote contact's path and ETag, as returned by List.
type Summary struct {
	Path string
	ETag string
}

// Contact is one fully-fetched remote vCard.
type Contact struct {
	Path string
	ETag string
	Card vcard.Card
}

// List returns the path and ETag of every address object in the address
// book; of each card body only the UID property is requested. Grounded on
// original_source/src/remote/carddav.rs::list_contacts (the
// GetAddressBookResources REPORT), adapted to go-webdav's
// AddressBookQuery/AddressDataRequest surface.
func (c *Client) List(ctx context.Context) ([]Summary, error) {
	query := &davcard.AddressBookQuery{
		DataRequest: davcard.AddressDataRequest{
			Props: []string{vcard.FieldUID},
		},
	}
	objs, err := c.raw.QueryAddressBook(ctx, c.AddressBookHref, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list address book %s: %w", c.AddressBookHref, err)
	}

	out := make([]Summary, 0, len(objs))
	for _, obj := range objs {
		out = append(out, Summary{Path: obj.Path, ETag: obj.ETag})
	}
	return out, nil
}

// FetchMany retrieves the full vCard body for each given path using the
// addressbook-multiget REPORT, batched by the caller. Grounded on
// original_source/src/remote/carddav.rs::fetch_contacts.
func (c *Client) FetchMany(ctx context.Context, paths []string) ([]Contact, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	multiGet := &davcard.AddressBookMultiGet{
		Paths: paths,
		DataRequest: davcard.AddressDataRequest{
			Props: []string{},
		},
	}
	objs, err := c.raw.MultiGetAddressBook(ctx, c.AddressBookHref, multiGet)
	if err != nil {
		return nil, fmt.Errorf("failed to multiget %d contacts: %w", len(paths), err)
	}

	out := make([]Contact, 0, len(objs))
	for _, obj := range objs {
		if obj.Card == nil {
			continue
		}
		out = append(out, Contact{Path: obj.Path, ETag: obj.ETag, Card: obj.Card})
	}
	return out, nil
}

// Put uploads card at path (creating or replacing it) and returns the
// ETag the server assigned, when reported.
func (c *Client) Put(ctx context.Context, path string, card vcard.Card) (string, error) {
	obj, err := c.raw.PutAddressObject(ctx, path, card)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if obj == nil {
		return "", nil
	}
	return obj.ETag, nil
}

// Delete removes the address object at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.raw.RemoveAll(ctx, path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

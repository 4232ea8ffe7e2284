/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package carddav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-webdav/carddav"

	"github.com/verdigris12/rldx-sub000/logging"
)

// basicAuthTransport adds HTTP Basic Authentication to every request.
// Grounded on humaidq-groundwave/src/db/carddav.go's basicAuthTransport.
type basicAuthTransport struct {
	Username string
	Password string
	Base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("carddav round trip failed: %w", err)
	}
	return resp, nil
}

// Client wraps a discovered carddav.Client bound to one resolved address
// book href.
type Client struct {
	raw             *carddav.Client
	AddressBookHref string
}

// Dial connects to serverURL with basic auth and resolves addressBookName
// to an address book href via the standard CardDAV discovery sequence:
// current-user-principal -> addressbook-home-set -> addressbook listing.
// Grounded on original_source/src/remote/carddav.rs::CardDavRemote::new/
// resolve_address_book.
func Dial(ctx context.Context, serverURL, username, password, addressBookName string) (*Client, error) {
	log := logging.Logger(logging.SourceCardDAV)

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &basicAuthTransport{
			Username: username,
			Password: password,
			Base:     http.DefaultTransport,
		},
	}

	raw, err := carddav.NewClient(httpClient, serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create CardDAV client: %w", err)
	}

	href, err := resolveAddressBook(ctx, raw, addressBookName)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved address book", "href", href)

	return &Client{raw: raw, AddressBookHref: href}, nil
}

func resolveAddressBook(ctx context.Context, raw *carddav.Client, addressBookName string) (string, error) {
	log := logging.Logger(logging.SourceCardDAV)

	principal, err := raw.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find current user principal: %w", err)
	}
	if principal == "" {
		return "", ErrNoPrincipal
	}

	homeSet, err := raw.FindAddressBookHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find address book home set: %w", err)
	}
	if homeSet == "" {
		return "", ErrNoAddressBookHomeSet
	}

	addressBooks, err := raw.FindAddressBooks(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to list address books: %w", err)
	}
	if len(addressBooks) == 0 {
		return "", ErrNoAddressBooks
	}

	if addressBookName == "" {
		return addressBooks[0].Path, nil
	}

	for _, ab := range addressBooks {
		if hrefName(ab.Path) == strings.ToLower(addressBookName) {
			return ab.Path, nil
		}
	}
	for _, ab := range addressBooks {
		if strings.Contains(strings.ToLower(ab.Path), strings.ToLower(addressBookName)) {
			return ab.Path, nil
		}
	}

	log.Warn("address book not found by name, falling back to first", "requested", addressBookName, "using", addressBooks[0].Path)
	return addressBooks[0].Path, nil
}

func hrefName(href string) string {
	trimmed := strings.TrimSuffix(href, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return strings.ToLower(trimmed)
	}
	return strings.ToLower(trimmed[idx+1:])
}

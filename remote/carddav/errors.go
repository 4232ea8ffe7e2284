/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package carddav wraps github.com/emersion/go-webdav/carddav with the
// discovery sequence (principal -> home set -> address book) and basic
// auth transport the sync engine needs to talk to a real CardDAV server.
// Grounded on humaidq-groundwave/src/db/carddav.go's newCardDAVClient/
// basicAuthTransport, enriched with the library's own discovery and
// multiget surface per original_source/src/remote/carddav.rs's
// bootstrap-via-service-discovery flow.
package carddav

import "errors"

// ErrNoPrincipal is returned when the server reports no current user
// principal during discovery.
var ErrNoPrincipal = errors.New("carddav: no current user principal found")

// ErrNoAddressBookHomeSet is returned when discovery finds a principal but
// no address book home set beneath it.
var ErrNoAddressBookHomeSet = errors.New("carddav: no address book home set found")

// ErrNoAddressBooks is returned when the home set contains no address
// books at all.
var ErrNoAddressBooks = errors.New("carddav: no address books found")

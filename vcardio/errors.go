/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vcardio

import "errors"

var (
	// ErrNoCards is returned when a file contains zero BEGIN:VCARD blocks.
	ErrNoCards = errors.New("file contains no vCards")
	// ErrNeedsUpgrade describes a card whose VERSION is not 4.0. No function
	// in this module returns it; vdir.Normalize lists such files in
	// NormalizationReport.NeedsUpgrade instead.
	ErrNeedsUpgrade = errors.New("card needs upgrade to vCard 4.0")
	// ErrMissingUID describes a card without a UID property. No function in
	// this module returns it; EnsureUUIDUID generates a UID instead.
	ErrMissingUID = errors.New("card has no UID property")
)

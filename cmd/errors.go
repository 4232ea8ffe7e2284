/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errAutomergeThresholdRange = errors.New("--automerge threshold must be between 0.0 and 1.0")
	errUnknownImportFormat     = errors.New("--format must be one of: google, maildir")
	errQueryRequired           = errors.New("query string is required")
	errMergeNeedsTwoPaths      = errors.New("merge requires at least two vcard file paths")
	errUnknownRemote           = errors.New("no such configured remote")
	errNoRemotesConfigured     = errors.New("no remotes configured")
	errNoContactMatch          = errors.New("no contact matches the given UID or query")
)

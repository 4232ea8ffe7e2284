/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/config"
	"github.com/verdigris12/rldx-sub000/index"
)

// findContact resolves uidOrQuery to a contact: an exact UUID match first,
// falling back to the first hit of a ListContacts search.
func findContact(ctx context.Context, db *index.DB, uidOrQuery string) (index.ContactListEntry, error) {
	all, err := db.ListContacts(ctx, "")
	if err != nil {
		return index.ContactListEntry{}, err
	}
	for _, c := range all {
		if c.UUID == uidOrQuery {
			return c, nil
		}
	}

	matches, err := db.ListContacts(ctx, uidOrQuery)
	if err != nil {
		return index.ContactListEntry{}, err
	}
	if len(matches) == 0 {
		return index.ContactListEntry{}, errNoContactMatch
	}
	return matches[0], nil
}

// findContactPath resolves uidOrQuery to a vdir file path via findContact.
func findContactPath(ctx context.Context, db *index.DB, uidOrQuery string) (string, error) {
	contact, err := findContact(ctx, db, uidOrQuery)
	if err != nil {
		return "", err
	}
	return contact.Path, nil
}

// ConfigFlag is shared by every subcommand that needs to locate the TOML
// settings file.
var ConfigFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to config.toml (defaults to ~/.config/rldx/config.toml)",
}

// loadConfig reads the config file named by --config, or the platform
// default when the flag is unset.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openIndex loads the config and opens its index database, a pairing every
// data-touching subcommand needs.
func openIndex(ctx context.Context, cmd *cli.Command) (*config.Config, *index.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := index.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open index: %w", err)
	}
	return cfg, db, nil
}

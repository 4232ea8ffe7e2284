/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CmdShow implements `show UID_OR_QUERY`, printing the full per-property
// breakdown index.DB.GetProps exposes for one contact — the only CLI
// surface for the fields QueryEmails/ListContacts never search (N, ADR,
// ROLE, RELATED, BDAY, ANNIVERSARY, and any X- extension).
var CmdShow = &cli.Command{
	Name:      "show",
	Usage:     "print a contact's full property breakdown",
	ArgsUsage: "UID_OR_QUERY",
	Flags:     []cli.Flag{ConfigFlag},
	Action:    runShow,
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return errQueryRequired
	}
	query := cmd.Args().First()

	_, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	contact, err := findContact(ctx, db, query)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", contact.DisplayFN)
	fmt.Printf("UID:  %s\n", contact.UUID)
	fmt.Printf("Path: %s\n", contact.Path)
	if contact.PrimaryOrg != "" {
		fmt.Printf("Org:  %s\n", contact.PrimaryOrg)
	}
	if contact.Kind != "" {
		fmt.Printf("Kind: %s\n", contact.Kind)
	}

	props, err := db.GetProps(ctx, contact.UUID)
	if err != nil {
		return fmt.Errorf("failed to load properties: %w", err)
	}
	for _, p := range props {
		fmt.Printf("%-12s %s\n", p.Field, p.Value)
	}
	return nil
}

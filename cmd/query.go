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

// CmdQuery implements `query QUERY_STRING`, printing abook-compatible
// tab-separated results for mutt/aerc consumption. Grounded on
// original_source/src/main.rs::handle_query.
var CmdQuery = &cli.Command{
	Name:      "query",
	Usage:     "search contacts for a matching email address",
	ArgsUsage: "QUERY_STRING",
	Flags:     []cli.Flag{ConfigFlag},
	Action:    runQuery,
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return errQueryRequired
	}
	query := cmd.Args().First()

	_, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.QueryEmails(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query contacts: %w", err)
	}

	if len(results) == 0 {
		fmt.Printf("No matches for %q\n", query)
	} else {
		fmt.Printf("Found %d contact(s) matching %q\n", len(results), query)
	}

	for _, r := range results {
		notes := r.Notes
		if notes == "" {
			notes = " "
		}
		fmt.Printf("%s\t%s\t%s\n", r.Email, r.DisplayFN, notes)
	}
	return nil
}

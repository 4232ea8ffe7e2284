/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// ReindexFlag forces a full rebuild of the relational index from the
// no-subcommand default action. Shared with main's root command so the
// flag definition isn't duplicated between packages.
var ReindexFlag = &cli.BoolFlag{
	Name:  "reindex",
	Usage: "force a full rebuild of the index",
}

// RunDefault normalizes the vdir and reindexes it, mirroring
// original_source/src/main.rs's no-subcommand branch. An interactive UI
// is out of scope for this module (see SPEC_FULL.md); the pass prints a
// summary instead of launching one.
func RunDefault(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	cliLogger.Info("loaded configuration", "path", cfg.ConfigPath)

	normalizeReport, err := vdir.Normalize(cfg.Vdir)
	if err != nil {
		return fmt.Errorf("failed to normalize vdir: %w", err)
	}
	if len(normalizeReport.NeedsUpgrade) > 0 {
		fmt.Printf("warning: %d cards require manual upgrade to vCard 4.0\n", len(normalizeReport.NeedsUpgrade))
	}

	reindexReport, err := index.Reindex(ctx, db, cfg.Vdir, cfg.PhoneRegion, cmd.Bool("reindex"))
	if err != nil {
		return fmt.Errorf("failed to reindex: %w", err)
	}

	fmt.Printf("indexed %d, removed %d, skipped %d\n", reindexReport.Indexed, reindexReport.Removed, reindexReport.Skipped)
	return nil
}

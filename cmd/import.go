/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/importer/google"
	"github.com/verdigris12/rldx-sub000/importer/maildir"
	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// CmdImport implements `import --format {google|maildir} [--book NAME]
// [--automerge F] [--threads N] PATH`. Grounded on
// original_source/src/main.rs::handle_import.
var CmdImport = &cli.Command{
	Name:      "import",
	Usage:     "import contacts from a Google Takeout export or a maildir tree",
	ArgsUsage: "PATH",
	Flags: []cli.Flag{
		ConfigFlag,
		&cli.StringFlag{Name: "format", Required: true, Usage: "google or maildir"},
		&cli.StringFlag{Name: "book", Usage: "address book subdirectory to import into"},
		&cli.FloatFlag{Name: "automerge", Usage: "auto-merge threshold (0.0-1.0)"},
		&cli.IntFlag{Name: "threads", Aliases: []string{"j"}, Usage: "worker count for maildir import (defaults to NumCPU)"},
	},
	Action: runImport,
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("PATH is required")
	}
	path := cmd.Args().First()

	automerge := cmd.Float("automerge")
	autoMergeEnabled := cmd.IsSet("automerge")
	if autoMergeEnabled && (automerge < 0.0 || automerge > 1.0) {
		return errAutomergeThresholdRange
	}

	cfg, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := vdir.Normalize(cfg.Vdir); err != nil {
		return fmt.Errorf("failed to normalize vdir: %w", err)
	}

	book := cmd.String("book")

	switch strings.ToLower(cmd.String("format")) {
	case "google":
		result, err := google.Import(ctx, path, cfg, book, automerge, autoMergeEnabled, db)
		if err != nil {
			return fmt.Errorf("failed to import google contacts: %w", err)
		}
		fmt.Printf("Imported %d contacts.\n", result.Imported)
		if len(result.Merged) > 0 {
			fmt.Printf("Auto-merged %d contacts:\n", len(result.Merged))
			for _, m := range result.Merged {
				fmt.Printf("  %s <%s> -> %s (%.2f)\n", m.Name, m.Email, m.MergedInto, m.Score)
			}
		}
		if result.Skipped > 0 {
			fmt.Printf("Skipped %d contacts (duplicate email or conversion error).\n", result.Skipped)
		}

	case "maildir":
		threads := cmd.Int("threads")
		if threads <= 0 {
			threads = runtime.NumCPU()
		}
		result, err := maildir.Import(ctx, path, cfg, book, automerge, autoMergeEnabled, threads, db)
		if err != nil {
			return fmt.Errorf("failed to import maildir contacts: %w", err)
		}
		fmt.Printf("Imported %d contacts.\n", result.Imported)
		if len(result.Merged) > 0 {
			fmt.Printf("Auto-merged %d contacts:\n", len(result.Merged))
			for _, m := range result.Merged {
				fmt.Printf("  %s <%s> -> %s (%.2f)\n", m.Name, m.Email, m.MergedInto, m.Score)
			}
		}
		if result.Skipped > 0 {
			fmt.Printf("Skipped %d addresses (no name, too short, or duplicate email).\n", result.Skipped)
		}

	default:
		return errUnknownImportFormat
	}

	if _, err := index.Reindex(ctx, db, cfg.Vdir, cfg.PhoneRegion, false); err != nil {
		return fmt.Errorf("failed to reindex: %w", err)
	}
	return nil
}


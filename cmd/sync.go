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
	"github.com/verdigris12/rldx-sub000/remote/carddav"
	"github.com/verdigris12/rldx-sub000/syncengine"
)

// CmdSync implements `sync [--dry-run] [--pull-only] [REMOTE_NAME]`.
// With no REMOTE_NAME every configured remote is synced in turn.
var CmdSync = &cli.Command{
	Name:      "sync",
	Usage:     "synchronize the vdir against one or all configured CardDAV remotes",
	ArgsUsage: "[REMOTE_NAME]",
	Flags: []cli.Flag{
		ConfigFlag,
		&cli.BoolFlag{Name: "dry-run", Usage: "report intended actions without changing anything"},
		&cli.BoolFlag{Name: "pull-only", Usage: "only download remote changes, never push local ones"},
	},
	Action: runSync,
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if len(cfg.Remotes) == 0 {
		return errNoRemotesConfigured
	}

	var names []string
	if cmd.Args().Len() > 0 {
		name := cmd.Args().First()
		if _, ok := cfg.Remotes[name]; !ok {
			return fmt.Errorf("%w: %s", errUnknownRemote, name)
		}
		names = []string{name}
	} else {
		for name := range cfg.Remotes {
			names = append(names, name)
		}
	}

	dryRun := cmd.Bool("dry-run")

	for _, name := range names {
		remoteCfg := cfg.Remotes[name]
		if cmd.Bool("pull-only") {
			remoteCfg.PullOnly = true
		}

		if err := syncOne(ctx, cfg, remoteCfg, db, dryRun); err != nil {
			cliLogger.Error("sync failed", "remote", name, "err", err)
			continue
		}
	}
	return nil
}

func syncOne(ctx context.Context, cfg *config.Config, remoteCfg config.RemoteConfig, db *index.DB, dryRun bool) error {
	client, err := carddav.Dial(ctx, remoteCfg.URL, remoteCfg.Username, remoteCfg.Password, remoteCfg.AddressBook)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", remoteCfg.Name, err)
	}

	engine := syncengine.New(cfg, remoteCfg, db, dryRun)
	result, err := engine.Sync(ctx, syncengine.NewCardDAVRemote(client))
	if err != nil {
		return err
	}

	fmt.Printf("%s: downloaded %d, uploaded %d, deleted local %d, deleted remote %d\n",
		remoteCfg.Name, result.Downloaded, result.Uploaded, result.DeletedLocal, result.DeletedRemote)
	for _, syncErr := range result.Errors {
		fmt.Printf("  error: %s\n", syncErr.Error())
	}
	return nil
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/index"
	"github.com/verdigris12/rldx-sub000/merge"
	"github.com/verdigris12/rldx-sub000/vcardio"
	"github.com/verdigris12/rldx-sub000/vdir"
)

// CmdMerge implements the interactive multi-card merge described in
// SPEC_FULL.md §4.7: it collapses two or more marked vdir files into one,
// keeping the first path's directory and union of properties. Grounded on
// spec.md §4.7's "Interactive multi-card merge".
var CmdMerge = &cli.Command{
	Name:      "merge",
	Usage:     "merge two or more vcard files into one",
	ArgsUsage: "PATH...",
	Flags:     []cli.Flag{ConfigFlag},
	Action:    runMerge,
}

func runMerge(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) < 2 {
		return errMergeNeedsTwoPaths
	}

	_, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	targetData, err := os.ReadFile(paths[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", paths[0], err)
	}
	target, err := vcardio.DecodeCard(targetData)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", paths[0], err)
	}

	now := time.Now().UTC()
	for _, path := range paths[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		source, err := vcardio.DecodeCard(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge.IntoExisting(target, source, now)
	}

	id, err := vcardio.EnsureUUIDUID(target)
	if err != nil {
		return fmt.Errorf("failed to assign UID: %w", err)
	}

	targetDir := filepath.Dir(paths[0])
	used, err := vdir.ExistingStems(targetDir)
	if err != nil {
		return err
	}
	newPath := vdir.TargetPath(targetDir, vdir.SelectFilename(id, used, vdir.Stem(paths[0])))

	encoded, err := vcardio.EncodeCard(target)
	if err != nil {
		return fmt.Errorf("failed to encode merged card: %w", err)
	}
	if err := vdir.WriteAtomic(newPath, encoded); err != nil {
		return fmt.Errorf("failed to write merged card: %w", err)
	}

	var toRemove []string
	for _, path := range paths {
		if path != newPath {
			toRemove = append(toRemove, path)
		}
	}
	for _, path := range toRemove {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			cliLogger.Warn("failed to remove merged source file", "path", path, "err", err)
		}
	}
	if err := db.DeleteItemsByPaths(ctx, toRemove); err != nil {
		return err
	}

	state, err := vdir.ComputeFileState(newPath)
	if err != nil {
		return err
	}
	item, props := index.ItemAndPropsFromCard(target, newPath, state.SHA1, state.MTime)
	if err := db.Upsert(ctx, item, props); err != nil {
		return err
	}

	fmt.Printf("merged %d files into %s\n", len(paths), newPath)
	return nil
}

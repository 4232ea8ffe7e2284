/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/verdigris12/rldx-sub000/cmd"
	"github.com/verdigris12/rldx-sub000/logging"
)

func main() {
	logging.Init()

	app := &cli.Command{
		Name:  "rldx",
		Usage: "personal contact manager: vdir normalizer, fuzzy merge, CardDAV sync",
		Flags: []cli.Flag{
			cmd.ConfigFlag,
			cmd.ReindexFlag,
		},
		Commands: []*cli.Command{
			cmd.CmdImport,
			cmd.CmdQuery,
			cmd.CmdSync,
			cmd.CmdMigrate,
			cmd.CmdMerge,
			cmd.CmdQR,
			cmd.CmdShow,
		},
		Action: cmd.RunDefault,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

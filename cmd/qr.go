/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/urfave/cli/v3"
)

// CmdQR implements `qr UID_OR_QUERY`, rendering the matching contact's raw
// vCard as a QR code. Grounded on SPEC_FULL.md §6's supplement drawn from
// humaidq-groundwave's otherwise-unused go-qrcode dependency.
var CmdQR = &cli.Command{
	Name:      "qr",
	Usage:     "render a contact's vCard as a QR code",
	ArgsUsage: "UID_OR_QUERY",
	Flags: []cli.Flag{
		ConfigFlag,
		&cli.StringFlag{Name: "out", Usage: "write the PNG to this path instead of stdout"},
	},
	Action: runQR,
}

func runQR(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return errQueryRequired
	}
	query := cmd.Args().First()

	_, db, err := openIndex(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	path, err := findContactPath(ctx, db, query)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to render QR code: %w", err)
	}

	if out := cmd.String("out"); out != "" {
		if err := os.WriteFile(out, png, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	}

	if _, err := os.Stdout.Write(png); err != nil {
		return fmt.Errorf("failed to write QR code to stdout: %w", err)
	}
	return nil
}

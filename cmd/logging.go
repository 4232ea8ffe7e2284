/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "github.com/verdigris12/rldx-sub000/logging"

var cliLogger = logging.Logger(logging.SourceCLI)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package main is the entry point for the Chronicle Siege CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chronicle-siege/chronicle/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		logging.LogError(slog.Default(), "chronicle failed", err)
		os.Exit(1)
	}
}

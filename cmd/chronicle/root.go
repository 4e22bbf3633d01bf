// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chronicle-siege/chronicle/internal/config"
	"github.com/chronicle-siege/chronicle/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Chronicle Siege CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chronicle",
		Short: "Chronicle Siege - a collaborative storytelling party game",
		Long: `Chronicle Siege is a turn-based collaborative storytelling game where
a party of writers fights monsters with words: submitted turns deal damage,
short turns cost hearts, and coins buy themes and writing tools.`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().String("log.format", "json", "log format (json or text)")
	cmd.PersistentFlags().String("log.level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewRelayCmd())
	cmd.AddCommand(NewHostCmd())
	cmd.AddCommand(NewJoinCmd())

	return cmd
}

// loadConfig reads the layered configuration for a subcommand and installs
// the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logging.SetDefault("chronicle", cmd.Root().Version, cfg.Log.Format, parseLevel(cfg.Log.Level))
	return cfg, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

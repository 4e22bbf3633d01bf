// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/chronicle-siege/chronicle/internal/observability"
	"github.com/chronicle-siege/chronicle/internal/relay"
)

// NewRelayCmd creates the relay subcommand.
func NewRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the websocket relay for online games",
		Long: `Run the fan-out relay that online sessions use as their transport.
The relay is content-blind: it forwards frames between the peers of a
channel and keeps no game state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runRelay(cmd.Context(), cfg.Relay.Listen, cfg.Observability.Listen)
		},
	}
	cmd.Flags().String("relay.listen", ":8420", "relay listen address")
	cmd.Flags().String("observability.listen", "127.0.0.1:9420", "metrics and health listen address")
	return cmd
}

func runRelay(ctx context.Context, listen, obsListen string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs := observability.NewServer(obsListen, func() bool { return true })
	obsErr, err := obs.Start()
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Stop(shutdownCtx)
	}()

	server := &http.Server{
		Addr:              listen,
		Handler:           relay.NewServer(slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("relay listening", "addr", listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down relay")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErr:
		return oops.Wrapf(err, "relay server")
	case err := <-obsErr:
		return oops.Wrapf(err, "observability server")
	}
}

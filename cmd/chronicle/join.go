// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chronicle-siege/chronicle/internal/core"
	"github.com/chronicle-siege/chronicle/internal/game"
	"github.com/chronicle-siege/chronicle/internal/relay"
)

// NewJoinCmd creates the join subcommand.
func NewJoinCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join an online game as a guest",
		Long: `Join a hosted session over the relay. Guests mirror the host's state:
every snapshot the host publishes is applied as-is and rendered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			guestID := cfg.Session.Name
			if guestID == "" {
				guestID = "guest-" + game.NewID()
			}
			return runJoin(cmd.Context(), cfg.Session.RelayURL, channel, guestID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "relay channel of the hosted game")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

func runJoin(ctx context.Context, relayURL, channelName, guestID string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	channelURL := strings.TrimRight(relayURL, "/") + "/channels/" + channelName
	ch, err := relay.Dial(ctx, channelURL, guestID, slog.Default())
	if err != nil {
		return err
	}
	defer ch.Close()

	engine := core.NewEngine(core.Options{Role: core.RoleGuest})
	watch := engine.Watch()
	defer engine.Unwatch(watch)
	go engine.Listen(ch.Receive())

	hello, err := json.Marshal(relay.JoinPayload{Name: guestID})
	if err != nil {
		return err
	}
	if err := ch.Publish(relay.Message{Type: relay.MsgTypeJoin, Payload: hello}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Joined channel %s as %s, waiting for the host...\n", channelName, guestID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case state, ok := <-watch:
			if !ok {
				return nil
			}
			renderSnapshot(out, state)
			if state.Status == game.StatusGameOver {
				fmt.Fprintln(out, "The chronicle is complete.")
				return nil
			}
		}
	}
}

func renderSnapshot(out io.Writer, state *game.State) {
	player := state.CurrentPlayer()
	fmt.Fprintf(out, "[turn %d | %s] %s is writing", state.Turn, state.Status, player.Name)
	if state.Monster != nil {
		fmt.Fprintf(out, " | %s %d/%d HP", state.Monster.Name, state.Monster.CurrentHP, state.Monster.MaxHP)
	}
	fmt.Fprintf(out, " | story %d words\n", state.StoryWordCount())
}

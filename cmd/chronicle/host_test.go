// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/config"
	"github.com/chronicle-siege/chronicle/internal/core"
	"github.com/chronicle-siege/chronicle/internal/game"
	"github.com/chronicle-siege/chronicle/internal/relay"
	"github.com/chronicle-siege/chronicle/internal/session"
	"github.com/chronicle-siege/chronicle/internal/timer"
	"github.com/chronicle-siege/chronicle/internal/world"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Export: config.Export{Dir: t.TempDir()},
	}
}

func TestRunHost_ScriptedSession(t *testing.T) {
	script := strings.Join([]string{
		"The siege began at dawn with horns and few arrows.",
		"/map",
		"/inspire",
		"Our heroine counted arrows and found too few.",
		"/quit",
	}, "\n")
	var out bytes.Buffer
	cfg := testConfig(t)

	err := runHost(context.Background(), cfg, hostOptions{
		players:    []string{"Ada", "Niamh"},
		difficulty: game.DifficultyNormal,
		locations:  "Keep > Wall\nWall > Keep",
		prompt:     "The Siege",
		in:         strings.NewReader(script),
		out:        &out,
	})

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Ada")
	assert.Contains(t, text, "Niamh", "turn passed to the second player")
	assert.Contains(t, text, "loc0: Keep -> loc1")
	assert.Contains(t, text, "earned 2 coins for writing 10 words")
	assert.Contains(t, text, "Inspiration: Ephemeral")
}

func TestRunHost_StoryLengthEndsAndExports(t *testing.T) {
	script := "one two three four five six seven eight nine ten\n"
	var out bytes.Buffer
	cfg := testConfig(t)

	err := runHost(context.Background(), cfg, hostOptions{
		players:     []string{"Solo"},
		difficulty:  game.DifficultyEasy,
		locations:   "Keep > Wall\nWall > Keep",
		storyLength: 5,
		in:          strings.NewReader(script),
		out:         &out,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "The chronicle is complete.")

	entries, err := os.ReadDir(cfg.Export.Dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 3, "story, journal, and bible exports: %v", names)

	var storyPath string
	for _, name := range names {
		if strings.HasSuffix(name, "story.txt") {
			storyPath = filepath.Join(cfg.Export.Dir, name)
		}
	}
	require.NotEmpty(t, storyPath)
	data, err := os.ReadFile(storyPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "one two three four five")
}

func TestRunHost_LimboRoundTrip(t *testing.T) {
	script := strings.Join([]string{
		"/limbo 5",
		"/emerge p1 alpha beta gamma delta epsilon",
		"/switch p1 0",
		"/quit",
	}, "\n")
	var out bytes.Buffer

	err := runHost(context.Background(), testConfig(t), hostOptions{
		players:    []string{"Solo"},
		difficulty: game.DifficultyNormal,
		locations:  "Keep > Wall\nWall > Keep",
		in:         strings.NewReader(script),
		out:        &out,
	})

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "descends into Limbo")
	assert.Contains(t, text, "LIMBO", "prompt shows the limbo status")
	assert.NotContains(t, text, "error:")
}

func newLoopEngine(t *testing.T) *core.Engine {
	t.Helper()
	players, err := session.ResolveOffline([]string{"Ada", "Niamh"})
	require.NoError(t, err)
	state := game.NewGame("GAME", game.Settings{
		Players:    players,
		Difficulty: game.DifficultyNormal,
		Locations:  world.Parse("Keep > Wall\nWall > Keep"),
		Mode:       game.ModeOffline,
		HostID:     "p1",
	})
	return core.NewEngine(core.Options{
		Role:   core.RoleHost,
		State:  state,
		Logger: slog.New(slog.DiscardHandler),
	})
}

func TestAdvancePhase_IntermissionStartsTurnAndArmsTimer(t *testing.T) {
	engine := newLoopEngine(t)
	countdown := timer.New(func() {}, nil)
	var out bytes.Buffer

	advancePhase(context.Background(), engine, countdown, &out)

	assert.Equal(t, game.StatusPlaying, engine.State().Status)
	assert.Equal(t, 90, countdown.Remaining(), "turn timer armed for Normal difficulty")
	assert.Contains(t, out.String(), "Ada's turn begins")
}

func TestAdvancePhase_ExpiredTurnResolvesTimeout(t *testing.T) {
	engine := newLoopEngine(t)
	require.NoError(t, engine.StartTurn())
	countdown := timer.New(func() {}, nil)
	var out bytes.Buffer

	advancePhase(context.Background(), engine, countdown, &out)

	state := engine.State()
	assert.Equal(t, game.StatusIntermission, state.Status)
	assert.Equal(t, 2, state.PlayerByID("p1").Hearts, "timeout costs the heart")
	assert.Equal(t, 1, state.CurrentPlayerIndex, "timeout advances the turn")
	assert.Contains(t, out.String(), "ran out of time")
	assert.Equal(t, game.IntermissionSeconds(state.StoryWordCount()), countdown.Remaining(),
		"intermission pacing armed for the next turn")
}

func TestRearmCountdown(t *testing.T) {
	engine := newLoopEngine(t)
	countdown := timer.New(func() {}, nil)

	state := engine.State()
	rearmCountdown(countdown, game.StatusIntermission, state)
	assert.Equal(t, game.IntermissionSeconds(state.StoryWordCount()), countdown.Remaining())

	require.NoError(t, engine.StartTurn())
	playing := engine.State()
	rearmCountdown(countdown, game.StatusIntermission, playing)
	assert.Equal(t, 90, countdown.Remaining(), "entering PLAYING arms the turn timer")

	countdown.Reset(42)
	rearmCountdown(countdown, game.StatusPlaying, playing)
	assert.Equal(t, 42, countdown.Remaining(), "a running turn timer is not refreshed")
}

func TestAwaitLobby_ResolvesRosterAndHost(t *testing.T) {
	hello, err := json.Marshal(relay.JoinPayload{Name: "Niamh"})
	require.NoError(t, err)
	messages := make(chan relay.Message, 4)
	messages <- relay.Message{Type: relay.MsgTypeState, SenderID: "noise"}
	messages <- relay.Message{Type: relay.MsgTypeJoin, SenderID: "guest-b", Payload: hello}
	messages <- relay.Message{Type: relay.MsgTypeJoin, SenderID: "guest-b", Payload: hello}
	messages <- relay.Message{Type: relay.MsgTypeJoin, SenderID: "guest-a"}

	var out bytes.Buffer
	roster, err := awaitLobby(context.Background(), messages, "Maeve", 2, &out)

	require.NoError(t, err)
	require.Len(t, roster, 3, "host plus two distinct guests, duplicates dropped")
	assert.Equal(t, hostSenderID, session.HostID(roster), "the hosting peer sorts lowest")

	players, err := session.ResolveOnline(roster)
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, hostSenderID, players[0].ID, "roster order is normalized by id")
	assert.Equal(t, "Maeve", players[0].Name)
	assert.Equal(t, "guest-a", players[1].Name, "nameless guests fall back to their id")
	assert.Equal(t, "Niamh", players[2].Name)
}

func TestAwaitLobby_AbandonedOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := awaitLobby(ctx, make(chan relay.Message), "Host", 1, &bytes.Buffer{})

	assert.Error(t, err)
}

func TestRunHost_RejectsBadDifficulty(t *testing.T) {
	err := runHost(context.Background(), testConfig(t), hostOptions{
		players:    []string{"Ada"},
		difficulty: game.Difficulty("Impossible"),
		locations:  "Keep > Wall",
		in:         strings.NewReader(""),
		out:        &bytes.Buffer{},
	})
	assert.Error(t, err)
}

func TestRunHost_RejectsEmptyMap(t *testing.T) {
	err := runHost(context.Background(), testConfig(t), hostOptions{
		players:    []string{"Ada"},
		difficulty: game.DifficultyNormal,
		locations:  "   ",
		in:         strings.NewReader(""),
		out:        &bytes.Buffer{},
	})
	assert.Error(t, err)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/chronicle-siege/chronicle/internal/config"
	"github.com/chronicle-siege/chronicle/internal/core"
	"github.com/chronicle-siege/chronicle/internal/export"
	"github.com/chronicle-siege/chronicle/internal/game"
	"github.com/chronicle-siege/chronicle/internal/gen"
	"github.com/chronicle-siege/chronicle/internal/relay"
	"github.com/chronicle-siege/chronicle/internal/session"
	"github.com/chronicle-siege/chronicle/internal/timer"
	"github.com/chronicle-siege/chronicle/internal/world"
	"github.com/chronicle-siege/chronicle/internal/xdg"
)

// NewHostCmd creates the host subcommand.
func NewHostCmd() *cobra.Command {
	var (
		players     []string
		channel     string
		guests      int
		difficulty  string
		locations   string
		prompt      string
		storyLength int
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host a game session",
		Long: `Host a Chronicle Siege session. Offline sessions run entirely on this
machine with the device passed between players. With --channel the host
also publishes every state change to the relay so remote peers can follow.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runHost(cmd.Context(), cfg, hostOptions{
				players:     players,
				channel:     channel,
				guests:      guests,
				difficulty:  game.Difficulty(difficulty),
				locations:   locations,
				prompt:      prompt,
				storyLength: storyLength,
				in:          cmd.InOrStdin(),
				out:         cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringSliceVar(&players, "players", nil, "player names in turn order (offline sessions)")
	cmd.Flags().StringVar(&channel, "channel", "", "relay channel for online play (empty for offline)")
	cmd.Flags().IntVar(&guests, "guests", 0, "wait in a lobby for this many guests before starting (online sessions)")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(game.DifficultyNormal), "difficulty: Easy, Normal, or Hard")
	cmd.Flags().StringVar(&locations, "locations", "Town Square > Haunted Forest, Castle Gates\nHaunted Forest > Town Square\nCastle Gates > Town Square", "world map, one 'Source > Dest, Dest' line per location")
	cmd.Flags().StringVar(&prompt, "prompt", "", "story prompt")
	cmd.Flags().IntVar(&storyLength, "story-length", 0, "end the game at this many story words (0 for unlimited)")
	return cmd
}

type hostOptions struct {
	players     []string
	channel     string
	guests      int
	difficulty  game.Difficulty
	locations   string
	prompt      string
	storyLength int
	in          io.Reader
	out         io.Writer
}

// hostSenderID sorts before the guest ids ("guest-..." and typical session
// names), so the lowest-id host rule every peer evaluates lands on the
// hosting instance.
const hostSenderID = "0-host"

func runHost(ctx context.Context, cfg *config.Config, opts hostOptions) error {
	if !opts.difficulty.Valid() {
		return oops.With("difficulty", opts.difficulty).Errorf("unknown difficulty")
	}
	if opts.guests > 0 && opts.channel == "" {
		return oops.Errorf("--guests needs --channel to hold a lobby")
	}
	if opts.guests == 0 && len(opts.players) == 0 {
		return oops.Errorf("either --players (offline) or --channel with --guests (online) is required")
	}

	locs := world.Parse(opts.locations)
	if len(locs) == 0 {
		return oops.Errorf("the world map parsed to no locations")
	}

	var ch *relay.Channel
	if opts.channel != "" {
		channelURL := strings.TrimRight(cfg.Session.RelayURL, "/") + "/channels/" + opts.channel
		var err error
		ch, err = relay.Dial(ctx, channelURL, hostSenderID, slog.Default())
		if err != nil {
			return err
		}
		defer ch.Close()
		fmt.Fprintf(opts.out, "Publishing to relay channel %s\n", opts.channel)
	}

	var players []game.Player
	var hostID string
	if opts.guests > 0 {
		hostName := cfg.Session.Name
		if hostName == "" {
			hostName = "Host"
		}
		roster, err := awaitLobby(ctx, ch.Receive(), hostName, opts.guests, opts.out)
		if err != nil {
			return err
		}
		if players, err = session.ResolveOnline(roster); err != nil {
			return err
		}
		hostID = session.HostID(roster)
	} else {
		var err error
		if players, err = session.ResolveOffline(opts.players); err != nil {
			return err
		}
		hostID = players[0].ID
	}

	mode := game.ModeOffline
	if opts.channel != "" {
		mode = game.ModeOnline
	}
	state := game.NewGame(game.NewID(), game.Settings{
		Players:          players,
		StoryPrompt:      opts.prompt,
		Difficulty:       opts.difficulty,
		StoryLengthWords: opts.storyLength,
		Locations:        locs,
		Mode:             mode,
		HostID:           hostID,
	})

	var generator gen.Generator = gen.Static{}
	if cfg.AI.APIKey != "" {
		generator = gen.NewClient(gen.Config{
			BaseURL:    cfg.AI.BaseURL,
			APIKey:     cfg.AI.APIKey,
			Model:      cfg.AI.Model,
			ImageModel: cfg.AI.ImageModel,
		})
	}

	var publisher core.Publisher
	if ch != nil {
		publisher = ch
	}

	engine := core.NewEngine(core.Options{
		Role:      core.RoleHost,
		State:     state,
		Generator: generator,
		Publisher: publisher,
	})
	if ch != nil {
		// Drain late joins and guest chatter for the rest of the session;
		// the host engine ignores inbound snapshots.
		go engine.Listen(ch.Receive())
	}

	return gameLoop(ctx, engine, cfg, opts.out, opts.in)
}

// awaitLobby blocks until enough distinct guests have announced themselves,
// then returns the roster with the hosting participant included.
func awaitLobby(ctx context.Context, messages <-chan relay.Message, hostName string, guestCount int, out io.Writer) ([]session.Participant, error) {
	fmt.Fprintf(out, "Waiting for %d guest(s) to join...\n", guestCount)
	roster := []session.Participant{{ID: hostSenderID, Name: hostName}}
	seen := map[string]bool{hostSenderID: true}
	for len(roster) < guestCount+1 {
		select {
		case <-ctx.Done():
			return nil, oops.Wrapf(ctx.Err(), "lobby abandoned")
		case msg, ok := <-messages:
			if !ok {
				return nil, oops.Errorf("relay channel closed during the lobby")
			}
			if msg.Type != relay.MsgTypeJoin || msg.SenderID == "" || seen[msg.SenderID] {
				continue
			}
			var hello relay.JoinPayload
			_ = json.Unmarshal(msg.Payload, &hello)
			name := hello.Name
			if name == "" {
				name = msg.SenderID
			}
			seen[msg.SenderID] = true
			roster = append(roster, session.Participant{ID: msg.SenderID, Name: name})
			fmt.Fprintf(out, "%s joined (%d/%d).\n", name, len(roster)-1, guestCount)
		}
	}
	return roster, nil
}

// gameLoop reads turn submissions and slash commands until the game ends or
// input runs out.
func gameLoop(ctx context.Context, engine *core.Engine, cfg *config.Config, out io.Writer, in io.Reader) error {
	var countdown *timer.Countdown
	countdown = timer.New(func() {
		advancePhase(ctx, engine, countdown, out)
	}, nil)
	timerCtx, stopTimer := context.WithCancel(ctx)
	defer stopTimer()
	go countdown.Run(timerCtx)
	countdown.Reset(game.IntermissionSeconds(engine.State().StoryWordCount()))

	fmt.Fprintln(out, "Type your turn and press enter. /help lists commands.")
	printPrompt(out, engine.State())

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		before := engine.State().Status
		quit, err := handleLine(ctx, engine, cfg, countdown, out, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		rearmCountdown(countdown, before, engine.State())
		if quit || engine.State().Status == game.StatusGameOver {
			break
		}
		printPrompt(out, engine.State())
	}

	state := engine.State()
	if state.Status == game.StatusGameOver {
		fmt.Fprintln(out, "\nThe chronicle is complete.")
		if marked, err := engine.Highlights(ctx); err == nil && strings.Contains(marked, gen.HighlightOpen) {
			fmt.Fprintln(out, "Sentences worth revisiting:")
			replacer := strings.NewReplacer(gen.HighlightOpen, ">>", gen.HighlightClose, "<<")
			fmt.Fprintln(out, replacer.Replace(marked))
		}
		return exportSession(cfg, state, out)
	}
	return scanner.Err()
}

// advancePhase runs when the countdown expires. During a turn the expiry is
// the turn timeout; during intermission it starts the next player's turn and
// arms the turn timer.
func advancePhase(ctx context.Context, engine *core.Engine, countdown *timer.Countdown, out io.Writer) {
	state := engine.State()
	switch state.Status {
	case game.StatusPlaying:
		outcome, err := engine.ResolveTimeout(ctx)
		if err != nil {
			return
		}
		printOutcome(out, outcome)
		if next := engine.State(); next.Status == game.StatusIntermission {
			countdown.Reset(game.IntermissionSeconds(next.StoryWordCount()))
		}
	case game.StatusIntermission:
		if err := engine.StartTurn(); err != nil {
			return
		}
		next := engine.State()
		fmt.Fprintf(out, "\n%s's turn begins. %d seconds on the clock.\n> ",
			next.CurrentPlayer().Name, next.Settings.Difficulty.Tuning().TimerSeconds)
		countdown.Reset(next.Settings.Difficulty.Tuning().TimerSeconds)
	}
}

// rearmCountdown re-arms the countdown after a handled input line. A running
// turn timer is left alone so slash commands cannot refresh the clock.
func rearmCountdown(countdown *timer.Countdown, before game.Status, state *game.State) {
	switch state.Status {
	case game.StatusIntermission:
		countdown.Reset(game.IntermissionSeconds(state.StoryWordCount()))
	case game.StatusPlaying:
		if before != game.StatusPlaying {
			countdown.Reset(state.Settings.Difficulty.Tuning().TimerSeconds)
		}
	default:
		countdown.Pause()
	}
}

func handleLine(ctx context.Context, engine *core.Engine, cfg *config.Config, countdown *timer.Countdown, out io.Writer, line string) (quit bool, err error) {
	trimmed := strings.TrimSpace(line)
	state := engine.State()

	if !strings.HasPrefix(trimmed, "/") {
		if state.Status != game.StatusPlaying {
			if err := engine.StartTurn(); err != nil {
				return false, err
			}
		}
		countdown.Pause()
		outcome, err := engine.SubmitTurn(ctx, line, false)
		if err != nil {
			return false, err
		}
		printOutcome(out, outcome)
		return false, nil
	}

	fields := strings.Fields(trimmed)
	command, args := fields[0], fields[1:]
	switch command {
	case "/help":
		fmt.Fprint(out, helpText)
	case "/pass":
		outcome, err := engine.SubmitTurn(ctx, "", false)
		if err != nil {
			return false, err
		}
		printOutcome(out, outcome)
	case "/move":
		if len(args) != 1 {
			return false, oops.Errorf("usage: /move <location-id>")
		}
		outcome, err := engine.Move(ctx, args[0])
		if err != nil {
			return false, err
		}
		printOutcome(out, outcome)
	case "/map":
		printMap(out, state)
	case "/shop":
		if err := engine.OpenShop(); err != nil {
			return false, err
		}
		printShop(out)
	case "/buy":
		if len(args) != 2 {
			return false, oops.Errorf("usage: /buy <player-id> <item-id>")
		}
		if err := engine.Buy(args[0], args[1]); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "Purchased.")
	case "/done":
		return false, engine.ExitShop()
	case "/brainstorm":
		if len(args) < 2 {
			return false, oops.Errorf("usage: /brainstorm <player-id> <text>")
		}
		return false, engine.Brainstorm(args[0], strings.Join(args[1:], " "))
	case "/quest":
		if len(args) < 3 {
			return false, oops.Errorf("usage: /quest <target-words> <assignee|all> <title>")
		}
		target, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return false, oops.Wrapf(convErr, "target word count")
		}
		title := strings.Join(args[2:], " ")
		return false, engine.CreateQuest(title, "", target/4, target/2, target, args[1])
	case "/bible":
		return false, engine.UpdateStoryBible(strings.Join(args, " "))
	case "/inspire":
		word, err := engine.Inspire(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Inspiration: %s\n", word)
	case "/critique":
		critique, err := engine.Critique(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, critique)
	case "/feedback":
		if len(args) < 4 {
			return false, oops.Errorf("usage: /feedback <from-id> <to-id> <rating> <text>")
		}
		rating, convErr := strconv.Atoi(args[2])
		if convErr != nil {
			return false, oops.Wrapf(convErr, "rating")
		}
		return false, engine.AddFeedback(ctx, args[0], args[1], strings.Join(args[3:], " "), rating)
	case "/donate":
		if len(args) != 3 {
			return false, oops.Errorf("usage: /donate <from-id> <to-id> <amount>")
		}
		amount, convErr := strconv.Atoi(args[2])
		if convErr != nil {
			return false, oops.Wrapf(convErr, "amount")
		}
		return false, engine.Donate(args[0], args[1], amount)
	case "/switch":
		if len(args) != 2 {
			return false, oops.Errorf("usage: /switch <player-id> <character-index>")
		}
		index, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return false, oops.Wrapf(convErr, "character index")
		}
		return false, engine.SwitchCharacter(args[0], index)
	case "/pause":
		if err := engine.Pause(); err != nil {
			return false, err
		}
		countdown.Pause()
		fmt.Fprintln(out, "Paused. Submit any turn text to resume.")
	case "/limbo":
		if len(args) < 1 {
			return false, oops.Errorf("usage: /limbo <goal-words>")
		}
		goal, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return false, oops.Wrapf(convErr, "goal words")
		}
		goals := make(map[string]int, len(state.Settings.Players))
		for i := range state.Settings.Players {
			goals[state.Settings.Players[i].ID] = goal
		}
		if err := engine.EnterLimbo(ctx, goals); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "The party descends into Limbo. /emerge when a demon is written down.")
	case "/emerge":
		if len(args) < 1 {
			return false, oops.Errorf("usage: /emerge <player-id> [draft text]")
		}
		return false, engine.LeaveLimbo(args[0], strings.Join(args[1:], " "))
	case "/export":
		return false, exportSession(cfg, engine.State(), out)
	case "/quit":
		return true, nil
	default:
		return false, oops.With("command", command).Errorf("unknown command, try /help")
	}
	return false, nil
}

const helpText = `Commands:
  <text>                               submit the current player's turn
  /pass                                submit nothing and take the hit
  /move <location-id>                  move, or attempt an escape while engaged
  /map                                 show locations and who is where
  /shop, /buy <player> <item>, /done   trade coins for themes and tools
  /brainstorm <player> <text>          add to a player's journal (1 coin per 10 words)
  /quest <words> <assignee|all> <title> create a writing quest
  /bible <text>                        replace the story bible
  /inspire                             ask for a single evocative word
  /critique                            ask for editorial feedback on the story
  /feedback <from> <to> <rating> <text> leave moderated feedback
  /donate <from> <to> <amount>         transfer coins
  /switch <player> <index>             switch a player's active persona
  /pause                               pause the session and the turn timer
  /limbo <goal-words>                  send the whole party into Limbo
  /emerge <player> [draft]             leave Limbo, banking the draft in the journal
  /export                              write story, journals, and bible to disk
  /quit                                stop hosting
`

func printPrompt(out io.Writer, state *game.State) {
	player := state.CurrentPlayer()
	fmt.Fprintf(out, "\n[turn %d | %s | %s] %s (%d hearts, %d coins)",
		state.Turn, state.Status, state.Settings.Difficulty, player.Name, player.Hearts, player.Coins)
	if state.Monster != nil && state.Engaged(player.ID) {
		fmt.Fprintf(out, " engaged with %s (%d/%d HP)",
			state.Monster.Name, state.Monster.CurrentHP, state.Monster.MaxHP)
	}
	fmt.Fprint(out, "\n> ")
}

func printOutcome(out io.Writer, outcome *game.TurnOutcome) {
	for _, line := range outcome.Log {
		fmt.Fprintln(out, line)
	}
	if outcome.Notice != nil {
		fmt.Fprintf(out, "*** %s %s\n", outcome.Notice.Title, outcome.Notice.Body)
	}
}

func printMap(out io.Writer, state *game.State) {
	for i := range state.Settings.Locations {
		loc := &state.Settings.Locations[i]
		fmt.Fprintf(out, "%s: %s -> %s\n", loc.ID, loc.Name, strings.Join(loc.Connections, ", "))
	}
	for i := range state.Settings.Players {
		p := &state.Settings.Players[i]
		fmt.Fprintf(out, "%s (%s) is at %s\n", p.Name, p.ID, state.PlayerPositions[p.ID])
	}
}

func printShop(out io.Writer) {
	for _, item := range game.ShopCatalog() {
		fmt.Fprintf(out, "%-3s %-20s %4d coins  %s\n", item.ID, item.Name, item.Cost, item.Description)
	}
}

func exportSession(cfg *config.Config, state *game.State, out io.Writer) error {
	dir := cfg.Export.Dir
	if err := xdg.EnsureDir(dir); err != nil {
		return err
	}
	files := map[string]string{
		"story.txt":   export.Story(state),
		"journal.txt": export.Journal(state),
		"bible.txt":   export.Bible(state),
	}
	for name, content := range files {
		path := filepath.Join(dir, state.GameID+"-"+name)
		if err := export.WriteFile(path, content); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}

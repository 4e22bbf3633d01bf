// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package core runs game sessions. The Engine owns the authoritative state
// on the host, applies transitions from internal/game, and replicates the
// resulting snapshot; on guests it applies incoming snapshots and forwards
// nothing else.
package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chronicle-siege/chronicle/internal/game"
	"github.com/chronicle-siege/chronicle/internal/gen"
	"github.com/chronicle-siege/chronicle/internal/relay"
)

// Error codes for engine-level rejections.
const (
	CodeNotAuthoritative = "NOT_AUTHORITATIVE"
	CodeBadSnapshot      = "BAD_SNAPSHOT"
	CodeModerationFailed = "MODERATION_FAILED"
)

// Role says whether this peer owns the state or mirrors it.
type Role string

// Roles.
const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Publisher sends messages to the other session participants. A *relay.Channel
// satisfies it; offline sessions run without one.
type Publisher interface {
	Publish(msg relay.Message) error
}

// Engine drives one game session.
//
// Authority is single-writer: only the host resolves transitions, and every
// transition is followed by a full-snapshot broadcast. Guests treat incoming
// snapshots as truth and apply them unconditionally; with full snapshots a
// late arrival is simply overwritten by the next one.
type Engine struct {
	role        Role
	generator   gen.Generator
	publisher   Publisher
	broadcaster *Broadcaster
	logger      *slog.Logger
	tracer      trace.Tracer

	mu    sync.Mutex
	state *game.State
}

// Options configures a new Engine.
type Options struct {
	Role      Role
	State     *game.State
	Generator gen.Generator
	// Publisher replicates snapshots; nil for offline sessions.
	Publisher Publisher
	Logger    *slog.Logger
}

// NewEngine creates a session engine.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	generator := opts.Generator
	if generator == nil {
		generator = gen.Static{}
	}
	return &Engine{
		role:        opts.Role,
		generator:   generator,
		publisher:   opts.Publisher,
		broadcaster: NewBroadcaster(),
		logger:      logger.With("component", "engine", "role", string(opts.Role)),
		tracer:      otel.Tracer("chronicle/core"),
		state:       opts.State,
	}
}

// CanAuthor reports whether this peer may resolve transitions.
func (e *Engine) CanAuthor() bool {
	return e.role == RoleHost
}

// State returns the current snapshot. Callers must treat it as read-only;
// transitions never mutate a published state.
func (e *Engine) State() *game.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Watch subscribes to post-transition snapshots. Release with Unwatch.
func (e *Engine) Watch() chan *game.State {
	return e.broadcaster.Subscribe()
}

// Unwatch releases a Watch subscription.
func (e *Engine) Unwatch(ch chan *game.State) {
	e.broadcaster.Unsubscribe(ch)
}

// SubmitTurn resolves the active player's submission, spawning a monster
// afterwards when the spawn policy is due.
func (e *Engine) SubmitTurn(ctx context.Context, text string, moveOnly bool) (*game.TurnOutcome, error) {
	ctx, span := e.tracer.Start(ctx, "engine.SubmitTurn",
		trace.WithAttributes(attribute.Bool("move_only", moveOnly)))
	defer span.End()

	if err := e.requireAuthority(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	next, outcome := game.SubmitTurn(e.state, text, moveOnly)
	e.state = next
	e.mu.Unlock()

	TurnsResolved.WithLabelValues(TurnKindSubmit).Inc()
	if outcome.MonsterDefeated {
		MonstersDefeated.Inc()
	}
	for _, line := range outcome.Log {
		e.logger.Info("battle log", "game_id", next.GameID, "line", line)
	}

	if outcome.TurnAdvanced {
		e.maybeSpawnMonster(ctx)
	}
	e.replicate()
	return outcome, nil
}

// ResolveTimeout resolves an expired turn timer.
func (e *Engine) ResolveTimeout(ctx context.Context) (*game.TurnOutcome, error) {
	ctx, span := e.tracer.Start(ctx, "engine.ResolveTimeout")
	defer span.End()

	if err := e.requireAuthority(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	next, outcome := game.ResolveTimeout(e.state)
	e.state = next
	e.mu.Unlock()

	TurnsResolved.WithLabelValues(TurnKindTimeout).Inc()
	if outcome.TurnAdvanced {
		e.maybeSpawnMonster(ctx)
	}
	e.replicate()
	return outcome, nil
}

// Move relocates the active player, resolving an escape attempt if engaged.
func (e *Engine) Move(ctx context.Context, locationID string) (*game.TurnOutcome, error) {
	ctx, span := e.tracer.Start(ctx, "engine.Move",
		trace.WithAttributes(attribute.String("location_id", locationID)))
	defer span.End()

	if err := e.requireAuthority(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	next, outcome := game.Move(e.state, locationID)
	e.state = next
	e.mu.Unlock()

	TurnsResolved.WithLabelValues(TurnKindMove).Inc()
	if outcome.TurnAdvanced {
		e.maybeSpawnMonster(ctx)
	}
	e.replicate()
	return outcome, nil
}

// StartTurn begins the active player's turn.
func (e *Engine) StartTurn() error {
	return e.apply(func(s *game.State) *game.State { return game.StartTurn(s) })
}

// Pause suspends play.
func (e *Engine) Pause() error {
	return e.apply(func(s *game.State) *game.State { return game.Pause(s) })
}

// OpenShop switches the session into the shop.
func (e *Engine) OpenShop() error {
	return e.apply(func(s *game.State) *game.State { return game.OpenShop(s) })
}

// ExitShop returns from the shop to play.
func (e *Engine) ExitShop() error {
	return e.apply(func(s *game.State) *game.State { return game.ExitShop(s) })
}

// Buy purchases a shop item for a player.
func (e *Engine) Buy(playerID, itemID string) error {
	return e.applyErr(func(s *game.State) (*game.State, error) {
		return game.Buy(s, playerID, itemID)
	})
}

// Donate transfers coins between players.
func (e *Engine) Donate(fromID, toID string, amount int) error {
	return e.applyErr(func(s *game.State) (*game.State, error) {
		return game.Donate(s, fromID, toID, amount)
	})
}

// Brainstorm appends to a player's journal.
func (e *Engine) Brainstorm(playerID, text string) error {
	return e.apply(func(s *game.State) *game.State { return game.Brainstorm(s, playerID, text) })
}

// CreateQuest adds a quest.
func (e *Engine) CreateQuest(title, description string, rewardCoins, rewardXP, targetWords int, assigneeID string) error {
	quest := game.NewQuest(title, description, rewardCoins, rewardXP, targetWords, assigneeID)
	return e.apply(func(s *game.State) *game.State { return game.CreateQuest(s, quest) })
}

// UpdateStoryBible replaces the shared bible text.
func (e *Engine) UpdateStoryBible(text string) error {
	return e.apply(func(s *game.State) *game.State { return game.UpdateStoryBible(s, text) })
}

// SwitchCharacter changes a player's acting persona.
func (e *Engine) SwitchCharacter(playerID string, index int) error {
	return e.apply(func(s *game.State) *game.State { return game.SwitchCharacter(s, playerID, index) })
}

// EnterLimbo switches the session into Limbo with per-player word goals and
// generated demons.
func (e *Engine) EnterLimbo(ctx context.Context, wordGoals map[string]int) error {
	_, span := e.tracer.Start(ctx, "engine.EnterLimbo")
	defer span.End()

	if err := e.requireAuthority(); err != nil {
		return err
	}

	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	demons := make(map[string]game.Monster, len(wordGoals))
	for playerID, goal := range wordGoals {
		concept, err := e.generator.MonsterStats(ctx, state.Story, "the space between stories")
		if err != nil {
			concept = gen.FallbackConcept()
		}
		demons[playerID] = game.Monster{
			Name:        concept.Name,
			Description: concept.Description,
			MaxHP:       goal,
			CurrentHP:   goal,
			ImageURL:    gen.FallbackMonsterImageURL,
		}
	}

	e.mu.Lock()
	e.state = game.EnterLimbo(e.state, wordGoals, demons)
	e.mu.Unlock()
	e.replicate()
	return nil
}

// LeaveLimbo marks a player's demon as defeated by their draft.
func (e *Engine) LeaveLimbo(playerID, draft string) error {
	return e.apply(func(s *game.State) *game.State { return game.LeaveLimbo(s, playerID, draft) })
}

// AddFeedback moderates and records player-to-player feedback. Feedback the
// moderator rejects, or cannot judge, is never delivered.
func (e *Engine) AddFeedback(ctx context.Context, fromID, toID, text string, rating int) error {
	ctx, span := e.tracer.Start(ctx, "engine.AddFeedback")
	defer span.End()

	if err := e.requireAuthority(); err != nil {
		return err
	}

	ok, err := e.generator.ModerateFeedback(ctx, text)
	if err != nil {
		return oops.Code(CodeModerationFailed).Wrapf(err, "feedback moderation")
	}
	if !ok {
		return oops.Code(CodeModerationFailed).
			With("message", "This feedback was flagged as inappropriate.").
			Errorf("feedback rejected by moderation")
	}

	return e.applyErr(func(s *game.State) (*game.State, error) {
		return game.AddFeedback(s, fromID, toID, text, rating)
	})
}

// Inspire asks the generator for a single evocative word to unstick the
// current writer. Read-only, so any role may call it.
func (e *Engine) Inspire(ctx context.Context) (string, error) {
	return e.generator.InspirationWord(ctx)
}

// Critique asks the generator for editorial feedback on the story so far.
func (e *Engine) Critique(ctx context.Context) (string, error) {
	e.mu.Lock()
	story := e.state.Story
	e.mu.Unlock()
	return e.generator.Critique(ctx, story)
}

// Highlights returns the finished story with its most complex sentences
// wrapped in gen.HighlightOpen/gen.HighlightClose markers.
func (e *Engine) Highlights(ctx context.Context) (string, error) {
	e.mu.Lock()
	story := e.state.Story
	e.mu.Unlock()
	return e.generator.HighlightSentences(ctx, story)
}

// ApplySnapshot replaces the local state with a snapshot from the host.
// Snapshots are applied unconditionally: each one is complete, so the newest
// arrival always leaves the guest consistent.
func (e *Engine) ApplySnapshot(payload []byte) error {
	var state game.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return oops.Code(CodeBadSnapshot).Wrapf(err, "decode snapshot")
	}

	e.mu.Lock()
	e.state = &state
	e.mu.Unlock()

	SnapshotsApplied.Inc()
	e.broadcaster.Broadcast(&state)
	return nil
}

// Listen consumes relay messages until the channel closes. Guests apply
// state snapshots; everything else is ignored here.
func (e *Engine) Listen(messages <-chan relay.Message) {
	for msg := range messages {
		if msg.Type != relay.MsgTypeState {
			continue
		}
		if e.role == RoleHost {
			// Hosts are the source of snapshots, never a sink.
			continue
		}
		if err := e.ApplySnapshot(msg.Payload); err != nil {
			e.logger.Warn("discarding snapshot", "error", err)
		}
	}
}

// maybeSpawnMonster runs the spawn policy after a turn advance. Generation
// failures fall back to stock stats inside the generator; a hard error just
// skips this spawn window.
func (e *Engine) maybeSpawnMonster(ctx context.Context) {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	if !game.SpawnDue(state.Turn, state.Monster != nil) {
		return
	}

	locationID := state.PlayerPositions[state.Settings.HostID]
	locationName := "an unknown place"
	if loc := state.Location(locationID); loc != nil {
		locationName = loc.Name
	}

	concept, err := e.generator.MonsterStats(ctx, state.Story, locationName)
	if err != nil {
		e.logger.Warn("monster generation failed, skipping spawn", "error", err)
		return
	}
	imageURL, err := e.generator.MonsterArt(ctx, concept.Description)
	if err != nil {
		imageURL = gen.FallbackMonsterImageURL
	}

	monster := game.ScaleMonster(concept.Name, concept.Description, concept.HP, concept.Attack,
		state.Settings.Difficulty, imageURL, locationID)

	e.mu.Lock()
	next := e.state.Clone()
	next.Monster = &monster
	e.state = next
	e.mu.Unlock()

	MonstersSpawned.Inc()
	e.logger.Info("monster spawned",
		"game_id", state.GameID,
		"monster", monster.Name,
		"hp", monster.MaxHP,
		"location_id", locationID,
	)
}

func (e *Engine) requireAuthority() error {
	if !e.CanAuthor() {
		return oops.Code(CodeNotAuthoritative).
			Errorf("only the host resolves game actions")
	}
	return nil
}

// apply runs an infallible transition under authority and replicates.
func (e *Engine) apply(fn func(*game.State) *game.State) error {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	e.mu.Lock()
	e.state = fn(e.state)
	e.mu.Unlock()
	e.replicate()
	return nil
}

// applyErr runs a fallible transition under authority. Rejected transitions
// leave the state untouched and nothing is replicated.
func (e *Engine) applyErr(fn func(*game.State) (*game.State, error)) error {
	if err := e.requireAuthority(); err != nil {
		return err
	}
	e.mu.Lock()
	next, err := fn(e.state)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.state = next
	e.mu.Unlock()
	e.replicate()
	return nil
}

// replicate broadcasts the current snapshot locally and, when online,
// publishes it to the relay. Publishing is fire-and-forget: a dropped
// snapshot is healed by the next one.
func (e *Engine) replicate() {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	e.broadcaster.Broadcast(state)

	if e.publisher == nil {
		return
	}
	payload, err := json.Marshal(state)
	if err != nil {
		e.logger.Error("marshal snapshot failed", "error", err)
		return
	}
	if err := e.publisher.Publish(relay.Message{Type: relay.MsgTypeState, Payload: payload}); err != nil {
		e.logger.Warn("snapshot publish failed", "error", err)
		return
	}
	SnapshotsPublished.Inc()
}

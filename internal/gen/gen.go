// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package gen produces AI-generated game content: monster concepts and art,
// writing critiques, feedback moderation, inspiration words, and sentence
// highlighting.
//
// All generation is best-effort. Implementations degrade to fixed fallback
// content rather than failing a turn, with one exception: moderation verdicts
// fail closed, so a generator outage can never let unmoderated feedback
// through.
package gen

import (
	"context"
	"strings"
)

// MonsterConcept is a generated monster before difficulty scaling.
type MonsterConcept struct {
	Name        string `json:"name" jsonschema:"description=A short evocative monster name"`
	Description string `json:"description" jsonschema:"description=One or two sentences describing the monster"`
	HP          int    `json:"hp" jsonschema:"description=Base hit points between 50 and 200"`
	Attack      int    `json:"attack" jsonschema:"description=Attack power between 5 and 25"`
}

// Generator produces game content from the story so far.
type Generator interface {
	// MonsterStats invents a monster that fits the recent story and the
	// location it will haunt.
	MonsterStats(ctx context.Context, storyContext, locationName string) (MonsterConcept, error)
	// MonsterArt returns an image URL for the described monster.
	MonsterArt(ctx context.Context, description string) (string, error)
	// Critique reviews a draft and returns short constructive feedback.
	Critique(ctx context.Context, draft string) (string, error)
	// ModerateFeedback reports whether player-to-player feedback is
	// appropriate to deliver. Errors mean "not appropriate".
	ModerateFeedback(ctx context.Context, text string) (bool, error)
	// InspirationWord returns a single evocative word.
	InspirationWord(ctx context.Context) (string, error)
	// HighlightSentences returns the passage with its most complex
	// sentences wrapped in HighlightOpen/HighlightClose markers. Empty
	// input yields HighlightEmptyMessage.
	HighlightSentences(ctx context.Context, text string) (string, error)
}

// Markers wrapped around highlighted sentences in analyzed text.
const (
	HighlightOpen  = "{{highlight}}"
	HighlightClose = "{{/highlight}}"
)

// Fixed sentence-analysis messages.
const (
	HighlightEmptyMessage       = "There's no text to analyze."
	HighlightUnavailableMessage = "The analysis tool is currently unavailable."
)

// Fallback content used when generation is unavailable.
const (
	FallbackMonsterName        = "Glitched Gremlin"
	FallbackMonsterDescription = "A creature born of static and broken signals, flickering at the edge of the story."
	FallbackMonsterHP          = 100
	FallbackMonsterAttack      = 10
	FallbackMonsterImageURL    = "https://picsum.photos/seed/monster/512/512"
	FallbackInspirationWord    = "Ephemeral"
)

// FallbackConcept is the monster used when stats generation fails.
func FallbackConcept() MonsterConcept {
	return MonsterConcept{
		Name:        FallbackMonsterName,
		Description: FallbackMonsterDescription,
		HP:          FallbackMonsterHP,
		Attack:      FallbackMonsterAttack,
	}
}

// Static is a Generator that always serves the fallback content. It backs
// sessions configured without an API key.
type Static struct{}

var _ Generator = Static{}

func (Static) MonsterStats(context.Context, string, string) (MonsterConcept, error) {
	return FallbackConcept(), nil
}

func (Static) MonsterArt(context.Context, string) (string, error) {
	return FallbackMonsterImageURL, nil
}

func (Static) Critique(context.Context, string) (string, error) {
	return "Keep writing! Every word makes the story stronger.", nil
}

// ModerateFeedback on the static generator approves everything; with no
// model available the host's own judgement is the only moderation there is.
func (Static) ModerateFeedback(context.Context, string) (bool, error) {
	return true, nil
}

func (Static) InspirationWord(context.Context) (string, error) {
	return FallbackInspirationWord, nil
}

// HighlightSentences on the static generator returns the text untouched:
// with no model there is nothing to single out, but the contract of
// "original text back, possibly marked" still holds.
func (Static) HighlightSentences(_ context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return HighlightEmptyMessage, nil
	}
	return text, nil
}

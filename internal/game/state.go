// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import (
	"strings"

	"github.com/chronicle-siege/chronicle/internal/world"
)

// Settings holds the session parameters fixed at game start.
type Settings struct {
	Players          []Player         `json:"players"`
	StoryPrompt      string           `json:"storyPrompt"`
	InitialText      string           `json:"initialText"`
	Goals            string           `json:"goals"`
	Difficulty       Difficulty       `json:"difficulty"`
	StoryLengthWords int              `json:"storyLengthWords,omitempty"` // zero means unlimited
	Locations        []world.Location `json:"locations"`
	Mode             Mode             `json:"mode"`
	HostRules        string           `json:"hostRules"`
	HostID           string           `json:"hostId"`
}

// VoteState tracks an in-progress vote.
type VoteState struct {
	Active bool     `json:"active"`
	Votes  []string `json:"votes"`
}

// LimboState is the alternate timer-free mode: each player fights a personal
// demon whose remaining HP is a live projection of their unsubmitted draft.
type LimboState struct {
	WordGoals        map[string]int     `json:"wordGoals"`
	Demons           map[string]Monster `json:"demons"`
	CompletedPlayers []string           `json:"completedPlayers"`
}

// Exited reports whether the player has already left Limbo.
func (l *LimboState) Exited(playerID string) bool {
	for _, id := range l.CompletedPlayers {
		if id == playerID {
			return true
		}
	}
	return false
}

// State is the root replicated aggregate. It is the single source of truth
// for a session; every transition replaces it wholesale and the host
// broadcasts the replacement verbatim.
type State struct {
	GameID             string              `json:"gameId"`
	Status             Status              `json:"status"`
	Settings           Settings            `json:"settings"`
	Story              string              `json:"story"`
	CurrentPlayerIndex int                 `json:"currentPlayerIndex"`
	Monster            *Monster            `json:"monster"`
	Turn               int                 `json:"turn"`
	PlayerPositions    map[string]string   `json:"playerPositions"`
	Journal            map[string][]string `json:"brainstormingJournal"`
	VoteState          *VoteState          `json:"voteState"`
	Quests             []Quest             `json:"quests"`
	StoryBible         string              `json:"storyBible"`
	Limbo              *LimboState         `json:"limboState"`
}

// DefaultStoryBible seeds a fresh session's bible.
const DefaultStoryBible = "This is the story bible. The host can add important world-building details, character backstories, and established lore here."

// Starting player stats.
const (
	StartingHearts = 3
	StartingLevel  = 1
)

// NewGame creates the initial state for a session: every player at full
// hearts with the free theme, positioned at the first parsed location, an
// empty journal, and status INTERMISSION awaiting the first turn.
// The players in settings must already carry resolved ids and personas.
func NewGame(gameID string, settings Settings) *State {
	startLocation := ""
	if len(settings.Locations) > 0 {
		startLocation = settings.Locations[0].ID
	}

	positions := make(map[string]string, len(settings.Players))
	journal := make(map[string][]string, len(settings.Players))
	for i := range settings.Players {
		positions[settings.Players[i].ID] = startLocation
		journal[settings.Players[i].ID] = []string{}
	}

	return &State{
		GameID:             gameID,
		Status:             StatusIntermission,
		Settings:           settings,
		Story:              settings.InitialText,
		CurrentPlayerIndex: 0,
		Turn:               1,
		PlayerPositions:    positions,
		Journal:            journal,
		Quests:             []Quest{},
		StoryBible:         DefaultStoryBible,
	}
}

// Clone returns a deep copy of the state. Transitions clone first and
// transform the copy, so the previous snapshot is never mutated in place.
func (s *State) Clone() *State {
	cp := *s

	cp.Settings.Players = make([]Player, len(s.Settings.Players))
	for i := range s.Settings.Players {
		cp.Settings.Players[i] = s.Settings.Players[i].clone()
	}

	cp.Settings.Locations = make([]world.Location, len(s.Settings.Locations))
	for i := range s.Settings.Locations {
		loc := s.Settings.Locations[i]
		loc.Connections = append([]string(nil), loc.Connections...)
		cp.Settings.Locations[i] = loc
	}

	if s.Monster != nil {
		monster := *s.Monster
		cp.Monster = &monster
	}

	cp.PlayerPositions = make(map[string]string, len(s.PlayerPositions))
	for k, v := range s.PlayerPositions {
		cp.PlayerPositions[k] = v
	}

	cp.Journal = make(map[string][]string, len(s.Journal))
	for k, v := range s.Journal {
		cp.Journal[k] = append([]string(nil), v...)
	}

	if s.VoteState != nil {
		vote := *s.VoteState
		vote.Votes = append([]string(nil), s.VoteState.Votes...)
		cp.VoteState = &vote
	}

	cp.Quests = make([]Quest, len(s.Quests))
	for i := range s.Quests {
		cp.Quests[i] = s.Quests[i].clone()
	}

	if s.Limbo != nil {
		limbo := LimboState{
			WordGoals:        make(map[string]int, len(s.Limbo.WordGoals)),
			Demons:           make(map[string]Monster, len(s.Limbo.Demons)),
			CompletedPlayers: append([]string(nil), s.Limbo.CompletedPlayers...),
		}
		for k, v := range s.Limbo.WordGoals {
			limbo.WordGoals[k] = v
		}
		for k, v := range s.Limbo.Demons {
			limbo.Demons[k] = v
		}
		cp.Limbo = &limbo
	}

	return &cp
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	return &s.Settings.Players[s.CurrentPlayerIndex]
}

// PlayerByID returns the player with the given id, or nil if absent.
func (s *State) PlayerByID(id string) *Player {
	for i := range s.Settings.Players {
		if s.Settings.Players[i].ID == id {
			return &s.Settings.Players[i]
		}
	}
	return nil
}

// Location returns the location with the given id, or nil if absent.
func (s *State) Location(id string) *world.Location {
	return world.Find(s.Settings.Locations, id)
}

// Engaged reports whether the player shares a location with the active
// monster.
func (s *State) Engaged(playerID string) bool {
	return s.Monster != nil && s.PlayerPositions[playerID] == s.Monster.LocationID
}

// StoryWordCount returns the total word count of the transcript.
func (s *State) StoryWordCount() int {
	return CountWords(s.Story)
}

// CountWords counts whitespace-delimited tokens, ignoring empty ones.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// IntermissionSeconds is the pacing between turns: a base pause plus one
// extra second per forty story words.
func IntermissionSeconds(storyWords int) int {
	return 10 + storyWords/40
}

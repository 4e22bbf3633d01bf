// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package session resolves game participants into players and decides which
// participant hosts.
//
// Offline sessions are a single machine passed around a table: names typed at
// setup become players with synthetic ids. Online sessions gather
// participants over the relay during a lobby phase; every peer sees the same
// roster, so the host can be derived rather than negotiated.
package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/oops"

	"github.com/chronicle-siege/chronicle/internal/game"
)

// CodeNoPlayers rejects rosters with nobody in them.
const CodeNoPlayers = "SESSION_NO_PLAYERS"

// Participant is one peer in an online lobby.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveOffline turns the names typed at setup into players with synthetic
// ids p1..pN. Blank names get a numbered placeholder.
func ResolveOffline(names []string) ([]game.Player, error) {
	if len(names) == 0 {
		return nil, oops.Code(CodeNoPlayers).Errorf("at least one player name is required")
	}
	players := make([]game.Player, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = newPlayer(fmt.Sprintf("p%d", i+1), name)
	}
	return players, nil
}

// ResolveOnline turns a lobby roster into players. The order is normalized
// by id so every peer derives the same player sequence from the same roster.
func ResolveOnline(roster []Participant) ([]game.Player, error) {
	if len(roster) == 0 {
		return nil, oops.Code(CodeNoPlayers).Errorf("the lobby is empty")
	}
	sorted := append([]Participant(nil), roster...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	players := make([]game.Player, len(sorted))
	for i, p := range sorted {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = newPlayer(p.ID, name)
	}
	return players, nil
}

// HostID picks the session host from a roster: the participant with the
// lowest-sorted id. Every peer evaluates this identically, so no election
// round trip is needed.
func HostID(roster []Participant) string {
	host := ""
	for _, p := range roster {
		if host == "" || p.ID < host {
			host = p.ID
		}
	}
	return host
}

func newPlayer(id, name string) game.Player {
	return game.Player{
		ID:         id,
		Name:       name,
		Hearts:     game.StartingHearts,
		MaxHearts:  game.StartingHearts,
		Level:      game.StartingLevel,
		Theme:      game.DefaultTheme(),
		Characters: []game.Character{{Name: name}},
	}
}

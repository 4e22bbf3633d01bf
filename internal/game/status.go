// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package game contains the core game state and the turn resolution engine.
//
// Every transition is a pure function from one State to the next: the input
// state is cloned, the clone is transformed, and the clone is returned. The
// caller (internal/core) decides who may author transitions and publishes the
// resulting snapshot. Game-logic outcomes such as a blocked escape or a party
// defeat are ordinary branches, never errors.
package game

// Status identifies the phase of a game session.
type Status string

// Game statuses.
const (
	StatusSetup        Status = "SETUP"
	StatusPlaying      Status = "PLAYING"
	StatusIntermission Status = "INTERMISSION"
	StatusPaused       Status = "PAUSED"
	StatusShop         Status = "SHOP"
	StatusGameOver     Status = "GAME_OVER"
	StatusVoting       Status = "VOTING"
	StatusLimbo        Status = "LIMBO"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Mode identifies how participants were resolved.
type Mode string

// Game modes.
const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import "strings"

// DemonHP is the live remaining health of a personal Limbo demon. It is a
// pure projection of the player's unsubmitted draft, never a stored value:
// the demon weakens as the draft grows.
func DemonHP(wordGoal, draftWordCount int) int {
	return max(0, wordGoal-draftWordCount)
}

// EnterLimbo switches the session into the timer-free Limbo mode with the
// given per-player word goals and personal demons.
func EnterLimbo(s *State, wordGoals map[string]int, demons map[string]Monster) *State {
	next := s.Clone()
	goals := make(map[string]int, len(wordGoals))
	for k, v := range wordGoals {
		goals[k] = v
	}
	demonCopies := make(map[string]Monster, len(demons))
	for k, v := range demons {
		demonCopies[k] = v
	}
	next.Limbo = &LimboState{
		WordGoals:        goals,
		Demons:           demonCopies,
		CompletedPlayers: []string{},
	}
	next.Status = StatusLimbo
	return next
}

// LeaveLimbo marks a player as having defeated their demon. The exit is only
// permitted once the draft meets the player's word goal; it appends the
// non-empty draft to the player's journal and grants one rebirth point. When
// the last player leaves, Limbo ends and the session returns to intermission.
func LeaveLimbo(s *State, playerID, draft string) *State {
	if s.Limbo == nil || s.Limbo.Exited(playerID) {
		return s
	}
	player := s.PlayerByID(playerID)
	if player == nil {
		return s
	}
	if CountWords(draft) < s.Limbo.WordGoals[playerID] {
		return s
	}

	next := s.Clone()
	if trimmed := strings.TrimSpace(draft); trimmed != "" {
		next.Journal[playerID] = append(next.Journal[playerID], draft)
	}
	next.PlayerByID(playerID).RebirthPoints++
	next.Limbo.CompletedPlayers = append(next.Limbo.CompletedPlayers, playerID)

	if len(next.Limbo.CompletedPlayers) == len(next.Settings.Players) {
		next.Limbo = nil
		next.Status = StatusIntermission
	}
	return next
}

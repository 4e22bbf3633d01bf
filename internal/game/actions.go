// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import "github.com/samber/oops"

// StartTurn begins the active player's turn from intermission, or resumes a
// paused game.
func StartTurn(s *State) *State {
	if s.Status != StatusIntermission && s.Status != StatusPaused {
		return s
	}
	next := s.Clone()
	next.Status = StatusPlaying
	return next
}

// Pause suspends play.
func Pause(s *State) *State {
	if s.Status != StatusPlaying {
		return s
	}
	next := s.Clone()
	next.Status = StatusPaused
	return next
}

// OpenShop switches the session into the shop.
func OpenShop(s *State) *State {
	if s.Status == StatusGameOver {
		return s
	}
	next := s.Clone()
	next.Status = StatusShop
	return next
}

// ExitShop returns from the shop to play.
func ExitShop(s *State) *State {
	if s.Status != StatusShop {
		return s
	}
	next := s.Clone()
	next.Status = StatusPlaying
	return next
}

// Brainstorm appends a free-text entry to the player's journal and pays one
// coin per ten words.
func Brainstorm(s *State, playerID, text string) *State {
	if s.PlayerByID(playerID) == nil {
		return s
	}
	next := s.Clone()
	next.PlayerByID(playerID).Coins += CountWords(text) / coinsPerWordsJournaled
	next.Journal[playerID] = append(next.Journal[playerID], text)
	return next
}

// CreateQuest adds a quest to the session log.
func CreateQuest(s *State, quest Quest) *State {
	next := s.Clone()
	if quest.Progress == nil {
		quest.Progress = make(map[string]int)
	}
	next.Quests = append(next.Quests, quest)
	return next
}

// UpdateStoryBible replaces the shared story bible text.
func UpdateStoryBible(s *State, text string) *State {
	next := s.Clone()
	next.StoryBible = text
	return next
}

// AddFeedback records a moderated rating on the receiving player. The caller
// is responsible for running the moderation verdict first.
func AddFeedback(s *State, fromID, toID, text string, rating int) (*State, error) {
	from := s.PlayerByID(fromID)
	to := s.PlayerByID(toID)
	if from == nil || to == nil {
		return s, oops.Code(CodeUnknownPlayer).
			With("from_id", fromID).
			With("to_id", toID).
			Errorf("unknown feedback sender or recipient")
	}
	if rating < 1 || rating > 5 {
		return s, oops.Code(CodeInvalidAmount).
			With("message", "Rating must be between 1 and 5.").
			With("rating", rating).
			Errorf("invalid feedback rating")
	}

	next := s.Clone()
	recipient := next.PlayerByID(toID)
	recipient.Feedback = append(recipient.Feedback, Feedback{
		FromPlayerID:   fromID,
		FromPlayerName: from.Name,
		Text:           text,
		Rating:         rating,
	})
	return next, nil
}

// SwitchCharacter changes which persona a player acts through. Out-of-range
// indexes leave the state unchanged, preserving the active-index invariant.
func SwitchCharacter(s *State, playerID string, characterIndex int) *State {
	player := s.PlayerByID(playerID)
	if player == nil || characterIndex < 0 || characterIndex >= len(player.Characters) {
		return s
	}
	next := s.Clone()
	next.PlayerByID(playerID).ActiveCharacterIndex = characterIndex
	return next
}

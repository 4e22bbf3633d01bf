// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import (
	"fmt"
	"strings"
)

// Notice is a user-facing announcement raised by a transition, shown as a
// modal by whatever UI consumes the state.
type Notice struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TurnOutcome reports what a turn transition did, for battle logs and
// notices. It is advisory; the next State carries the authoritative result.
type TurnOutcome struct {
	Log             []string
	Notice          *Notice
	MonsterDefeated bool
	GameOver        bool
	TurnAdvanced    bool
}

func (o *TurnOutcome) logf(format string, args ...any) {
	o.Log = append(o.Log, fmt.Sprintf(format, args...))
}

// Coin and XP rewards.
const (
	coinsPerWordsWritten   = 5  // one coin per five words in a turn
	coinsPerWordsJournaled = 10 // one coin per ten brainstormed words
	monsterRewardCoins     = 50
	monsterRewardXP        = 100
)

// SubmitTurn resolves the active player's submitted writing (or a move-only
// submission that contributes nothing) and returns the next state.
//
// The resolution order is load-bearing: transcript append, writing coins,
// player-attacks-monster, monster-counter-attack with the party-defeat check,
// potion auto-heal, quest progress, story-length check, turn advance. A party
// defeat or a reached story length ends the game and skips the later steps.
func SubmitTurn(s *State, text string, moveOnly bool) (*State, *TurnOutcome) {
	outcome := &TurnOutcome{}
	if s.Status == StatusGameOver {
		return s, outcome
	}

	next := s.Clone()
	player := next.CurrentPlayer()
	tuning := next.Settings.Difficulty.Tuning()

	text = strings.TrimSpace(text)
	wordCount := CountWords(text)
	if moveOnly {
		wordCount = 0
	}

	if !moveOnly && text != "" {
		entry := fmt.Sprintf("%s wrote:\n%s", player.ActiveCharacterName(), text)
		if next.Story == "" {
			next.Story = entry
		} else {
			next.Story += "\n\n" + entry
		}
	}

	if !moveOnly {
		if earned := wordCount / coinsPerWordsWritten; earned > 0 {
			player.Coins += earned
			outcome.logf("%s earned %d coins for writing %d words.", player.Name, earned, wordCount)
		}
	}

	engaged := next.Engaged(player.ID)

	// Player attacks monster.
	if next.Monster != nil && engaged && !moveOnly && wordCount > 0 {
		damage := int(float64(wordCount) * tuning.WordDamageMultiplier)
		if damage > 0 {
			next.Monster.CurrentHP = max(0, next.Monster.CurrentHP-damage)
			outcome.logf("%s dealt %d damage to %s!", player.Name, damage, next.Monster.Name)
			if next.Monster.CurrentHP == 0 {
				outcome.Notice = &Notice{
					Title: "Victory!",
					Body:  fmt.Sprintf("You defeated %s! You earned %d coins and %d XP.", next.Monster.Name, monsterRewardCoins, monsterRewardXP),
				}
				outcome.MonsterDefeated = true
				for i := range next.Settings.Players {
					next.Settings.Players[i].Coins += monsterRewardCoins
					next.Settings.Players[i].Experience += monsterRewardXP
				}
				next.Monster = nil
			}
		}
	}

	// Monster attacks player.
	if next.Monster != nil && engaged {
		dodged := wordCount >= tuning.DodgeWordCount && !moveOnly
		if dodged {
			outcome.logf("%s dodged the attack from %s!", player.Name, next.Monster.Name)
		} else {
			player.Hearts = max(0, player.Hearts-1)
			if wordCount == 0 && !moveOnly {
				outcome.logf("%s passed their turn and lost a heart!", player.Name)
			} else {
				outcome.logf("%s attacks! %s loses a heart.", next.Monster.Name, player.Name)
			}
		}

		if partyDefeated(next) {
			return endGame(next, outcome)
		}
	}

	// Auto-heal: one dose of a held Health Potion.
	if !moveOnly && player.Hearts < player.MaxHearts {
		if i := player.ItemIndex(ItemHealthPotion); i != -1 && player.Inventory[i].Uses > 0 {
			player.Hearts = min(player.MaxHearts, player.Hearts+1)
			player.Inventory[i].Uses--
			if player.Inventory[i].Uses <= 0 {
				player.Inventory = append(player.Inventory[:i], player.Inventory[i+1:]...)
				outcome.logf("%s used the last dose of a Health Potion and recovered a heart!", player.Name)
			} else {
				outcome.logf("%s used a Health Potion and recovered a heart! %d doses left.", player.Name, player.Inventory[i].Uses)
			}
		}
	}

	// Quest progress for the acting player.
	if !moveOnly && wordCount > 0 {
		for i := range next.Quests {
			quest := &next.Quests[i]
			if quest.IsComplete || !quest.AppliesTo(player.ID) {
				continue
			}
			if quest.Progress == nil {
				quest.Progress = make(map[string]int)
			}
			quest.Progress[player.ID] += wordCount
			if quest.TargetWordCount > 0 && quest.Progress[player.ID] >= quest.TargetWordCount {
				quest.IsComplete = true
				player.Coins += quest.RewardCoins
				player.Experience += quest.RewardXP
				outcome.logf("Quest Complete: %q! %s earns %d coins and %d XP.", quest.Title, player.Name, quest.RewardCoins, quest.RewardXP)
			}
		}
	}

	// Story-length terminal check.
	if next.Settings.StoryLengthWords > 0 && next.StoryWordCount() >= next.Settings.StoryLengthWords {
		next.Status = StatusGameOver
		outcome.GameOver = true
		return next, outcome
	}

	advanceTurn(next, outcome)
	return next, outcome
}

// ResolveTimeout resolves an expired per-turn timer while engaged: an
// automatic heart loss with no dodge chance, no damage dealt and no coins,
// followed by the same terminal check and turn advance as a submission.
func ResolveTimeout(s *State) (*State, *TurnOutcome) {
	outcome := &TurnOutcome{}
	if s.Status == StatusGameOver {
		return s, outcome
	}

	next := s.Clone()
	player := next.CurrentPlayer()
	player.Hearts = max(0, player.Hearts-1)
	outcome.logf("%s ran out of time and lost a heart!", player.Name)

	if partyDefeated(next) {
		return endGame(next, outcome)
	}

	advanceTurn(next, outcome)
	return next, outcome
}

// Move relocates the acting player. Away from the monster it is a free
// action; while engaged it is an escape attempt, permitted only through the
// monster location's own connections, and a successful escape consumes the
// turn.
func Move(s *State, newLocationID string) (*State, *TurnOutcome) {
	outcome := &TurnOutcome{}
	if s.Status == StatusGameOver {
		return s, outcome
	}

	if s.Location(newLocationID) == nil {
		outcome.logf("%s looks for a way to %q, but no such place exists.",
			s.CurrentPlayer().Name, newLocationID)
		return s, outcome
	}

	next := s.Clone()
	player := next.CurrentPlayer()

	if !next.Engaged(player.ID) {
		next.PlayerPositions[player.ID] = newLocationID
		return next, outcome
	}

	monsterLocation := next.Location(next.Monster.LocationID)
	if monsterLocation == nil || !monsterLocation.ConnectsTo(newLocationID) {
		outcome.logf("%s tries to escape, but is blocked!", player.Name)
		return s, outcome
	}

	destName := "an unknown place"
	if dest := next.Location(newLocationID); dest != nil {
		destName = dest.Name
	}
	outcome.logf("%s escapes to %s!", player.Name, destName)
	next.PlayerPositions[player.ID] = newLocationID
	advanceTurn(next, outcome)
	return next, outcome
}

// partyDefeated reports whether every player is at zero hearts.
func partyDefeated(s *State) bool {
	for i := range s.Settings.Players {
		if s.Settings.Players[i].Hearts > 0 {
			return false
		}
	}
	return len(s.Settings.Players) > 0
}

func endGame(s *State, outcome *TurnOutcome) (*State, *TurnOutcome) {
	s.Status = StatusGameOver
	outcome.GameOver = true
	outcome.Notice = &Notice{Title: "Party Defeated!", Body: "Your party has fallen."}
	return s, outcome
}

// advanceTurn hands play to the next player and returns to intermission.
// The turn counter increments only when the index wraps back to the first
// player.
func advanceTurn(s *State, outcome *TurnOutcome) {
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Settings.Players)
	if s.CurrentPlayerIndex == 0 {
		s.Turn++
	}
	s.Status = StatusIntermission
	outcome.TurnAdvanced = true
}

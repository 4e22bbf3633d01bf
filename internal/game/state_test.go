// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/game"
)

func TestNewGame(t *testing.T) {
	state := testState(t, 2)

	assert.Equal(t, "01TESTGAME", state.GameID)
	assert.Equal(t, game.StatusIntermission, state.Status)
	assert.Equal(t, 1, state.Turn)
	assert.Equal(t, 0, state.CurrentPlayerIndex)
	assert.Nil(t, state.Monster)
	assert.Empty(t, state.Quests)
	assert.Equal(t, game.DefaultStoryBible, state.StoryBible)

	for _, p := range state.Settings.Players {
		assert.Equal(t, game.StartingHearts, p.Hearts)
		assert.Equal(t, game.StartingHearts, p.MaxHearts)
		assert.Equal(t, 0, p.Coins)
		assert.Equal(t, game.StartingLevel, p.Level)
		assert.Equal(t, game.DefaultTheme(), p.Theme)
		assert.Equal(t, "loc0", state.PlayerPositions[p.ID], "everyone starts at the first location")
		require.Contains(t, state.Journal, p.ID)
		assert.Empty(t, state.Journal[p.ID])
	}
}

func TestNewGame_SeedsStoryFromInitialText(t *testing.T) {
	state := game.NewGame("g", game.Settings{
		Players:     testPlayers(1),
		InitialText: "It was a dark and stormy night.",
	})
	assert.Equal(t, "It was a dark and stormy night.", state.Story)
}

func TestClone_Independence(t *testing.T) {
	state := withMonster(testState(t, 2), 50)
	state.Quests = []game.Quest{game.NewQuest("Q", "", 10, 10, 100, game.AssigneeAll)}
	state.Journal["a"] = []string{"note"}

	cp := state.Clone()
	cp.Settings.Players[0].Coins = 99
	cp.Settings.Players[0].Inventory = append(cp.Settings.Players[0].Inventory, *game.CatalogItem(game.ItemHealthPotion))
	cp.Monster.CurrentHP = 1
	cp.PlayerPositions["a"] = "loc2"
	cp.Journal["a"] = append(cp.Journal["a"], "added")
	cp.Quests[0].Progress["a"] = 42
	cp.Settings.Locations[0].Connections[0] = "mutated"

	assert.Equal(t, 0, state.Settings.Players[0].Coins)
	assert.Empty(t, state.Settings.Players[0].Inventory)
	assert.Equal(t, 50, state.Monster.CurrentHP)
	assert.Equal(t, "loc0", state.PlayerPositions["a"])
	assert.Equal(t, []string{"note"}, state.Journal["a"])
	assert.Empty(t, state.Quests[0].Progress)
	assert.Equal(t, "loc1", state.Settings.Locations[0].Connections[0])
}

func TestEngaged(t *testing.T) {
	state := testState(t, 2)
	assert.False(t, state.Engaged("a"), "no monster, nobody is engaged")

	state = withMonster(state, 50)
	assert.True(t, state.Engaged("a"))

	state.PlayerPositions["b"] = "loc1"
	assert.False(t, state.Engaged("b"))
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t ", want: 0},
		{name: "simple", text: "one two three", want: 3},
		{name: "irregular spacing", text: "  one\n\ntwo\tthree  ", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.CountWords(tt.text))
		})
	}
}

func TestIntermissionSeconds(t *testing.T) {
	assert.Equal(t, 10, game.IntermissionSeconds(0))
	assert.Equal(t, 10, game.IntermissionSeconds(39))
	assert.Equal(t, 11, game.IntermissionSeconds(40))
	assert.Equal(t, 35, game.IntermissionSeconds(1000))
}

func TestSpawnDue(t *testing.T) {
	tests := []struct {
		turn       int
		hasMonster bool
		want       bool
	}{
		{turn: 1, hasMonster: false, want: false},
		{turn: 3, hasMonster: false, want: false},
		{turn: 5, hasMonster: false, want: true},
		{turn: 5, hasMonster: true, want: false},
		{turn: 7, hasMonster: false, want: false},
		{turn: 10, hasMonster: false, want: true},
		{turn: 15, hasMonster: true, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, game.SpawnDue(tt.turn, tt.hasMonster), "turn %d hasMonster %v", tt.turn, tt.hasMonster)
	}
}

func TestScaleMonster(t *testing.T) {
	monster := game.ScaleMonster("Grue", "lurks", 100, 12, game.DifficultyHard, "img", "loc0")
	assert.Equal(t, 120, monster.MaxHP)
	assert.Equal(t, 120, monster.CurrentHP, "spawns at full scaled health")
	assert.Equal(t, 12, monster.Attack)
	assert.Equal(t, "loc0", monster.LocationID)

	easy := game.ScaleMonster("Grue", "lurks", 100, 12, game.DifficultyEasy, "img", "loc0")
	assert.Equal(t, 80, easy.MaxHP)
}

func TestDifficultyTuning(t *testing.T) {
	normal := game.DifficultyNormal.Tuning()
	assert.Equal(t, 90, normal.TimerSeconds)
	assert.Equal(t, 40, normal.DodgeWordCount)

	fallback := game.Difficulty("Nightmare").Tuning()
	assert.Equal(t, normal, fallback, "unknown difficulty falls back to Normal")
	assert.False(t, game.Difficulty("Nightmare").Valid())
	assert.True(t, game.DifficultyHard.Valid())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

// Difficulty selects the combat tuning for a session.
type Difficulty string

// Difficulties.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyNormal Difficulty = "Normal"
	DifficultyHard   Difficulty = "Hard"
)

// DifficultySettings holds the combat tuning for one difficulty.
type DifficultySettings struct {
	// TimerSeconds is the per-turn countdown while engaged with a monster.
	TimerSeconds int
	// MonsterHPMultiplier scales generated base HP.
	MonsterHPMultiplier float64
	// WordDamageMultiplier converts submitted words into monster damage.
	WordDamageMultiplier float64
	// DodgeWordCount is the minimum word count to avoid a counter-attack.
	DodgeWordCount int
}

var difficultyTable = map[Difficulty]DifficultySettings{
	DifficultyEasy:   {TimerSeconds: 120, MonsterHPMultiplier: 0.8, WordDamageMultiplier: 1.5, DodgeWordCount: 25},
	DifficultyNormal: {TimerSeconds: 90, MonsterHPMultiplier: 1.0, WordDamageMultiplier: 1.0, DodgeWordCount: 40},
	DifficultyHard:   {TimerSeconds: 60, MonsterHPMultiplier: 1.2, WordDamageMultiplier: 0.8, DodgeWordCount: 60},
}

// Tuning returns the combat settings for the difficulty.
// Unknown difficulties fall back to Normal.
func (d Difficulty) Tuning() DifficultySettings {
	if tuning, ok := difficultyTable[d]; ok {
		return tuning
	}
	return difficultyTable[DifficultyNormal]
}

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	_, ok := difficultyTable[d]
	return ok
}

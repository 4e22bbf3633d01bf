// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

// Monster is the active world monster, or a personal Limbo demon.
// CurrentHP stays within [0, MaxHP].
type Monster struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxHP       int    `json:"maxHp"`
	CurrentHP   int    `json:"currentHp"`
	ImageURL    string `json:"imageUrl"`
	Attack      int    `json:"attack"`
	LocationID  string `json:"locationId"`
}

// SpawnDue reports whether the automatic spawn policy fires: the turn counter
// must be past the opening turns, land on a multiple of five, and no monster
// may be active.
func SpawnDue(turn int, hasMonster bool) bool {
	return turn > 3 && turn%5 == 0 && !hasMonster
}

// ScaleMonster applies the difficulty HP multiplier to generated base stats
// and places the monster, starting it at full scaled health.
func ScaleMonster(name, description string, baseHP, attack int, difficulty Difficulty, imageURL, locationID string) Monster {
	hp := int(float64(baseHP) * difficulty.Tuning().MonsterHPMultiplier)
	return Monster{
		Name:        name,
		Description: description,
		MaxHP:       hp,
		CurrentHP:   hp,
		ImageURL:    imageURL,
		Attack:      attack,
		LocationID:  locationID,
	}
}

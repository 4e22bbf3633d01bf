// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

// Feedback is a rating left for a player by another player after a turn.
type Feedback struct {
	FromPlayerID   string `json:"fromPlayerId"`
	FromPlayerName string `json:"fromPlayerName"`
	Text           string `json:"text"`
	Rating         int    `json:"rating"`
}

// Character is a writing persona a player can act through.
type Character struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// Player is one party member.
//
// Invariants: Hearts stays within [0, MaxHearts] and ActiveCharacterIndex
// within [0, len(Characters)); Coins and RebirthPoints never go negative.
type Player struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Hearts               int         `json:"hearts"`
	MaxHearts            int         `json:"maxHearts"`
	Coins                int         `json:"coins"`
	Level                int         `json:"level"`
	Experience           int         `json:"experience"`
	Inventory            []Item      `json:"inventory"`
	Theme                Theme       `json:"theme"`
	Feedback             []Feedback  `json:"feedback"`
	Characters           []Character `json:"characters"`
	ActiveCharacterIndex int         `json:"activeCharacterIndex"`
	RebirthPoints        int         `json:"rebirthPoints"`
}

// ActiveCharacterName returns the acting persona's name, falling back to
// the player name when the persona has none.
func (p *Player) ActiveCharacterName() string {
	if p.ActiveCharacterIndex >= 0 && p.ActiveCharacterIndex < len(p.Characters) {
		if name := p.Characters[p.ActiveCharacterIndex].Name; name != "" {
			return name
		}
	}
	return p.Name
}

// Owns reports whether the player's inventory contains the item id.
func (p *Player) Owns(itemID string) bool {
	return p.ItemIndex(itemID) != -1
}

// ItemIndex returns the inventory index of the item id, or -1 if absent.
func (p *Player) ItemIndex(itemID string) int {
	for i := range p.Inventory {
		if p.Inventory[i].ID == itemID {
			return i
		}
	}
	return -1
}

// clone returns a deep copy of the player.
func (p *Player) clone() Player {
	cp := *p
	cp.Inventory = append([]Item(nil), p.Inventory...)
	for i := range cp.Inventory {
		if cp.Inventory[i].Theme != nil {
			theme := *cp.Inventory[i].Theme
			cp.Inventory[i].Theme = &theme
		}
	}
	cp.Feedback = append([]Feedback(nil), p.Feedback...)
	cp.Characters = append([]Character(nil), p.Characters...)
	return cp
}

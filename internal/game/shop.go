// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

import "github.com/samber/oops"

// Validation error codes for shop and donation actions. Rejections leave the
// state unchanged; the "message" context carries the user-facing notice.
const (
	CodeUnknownPlayer     = "UNKNOWN_PLAYER"
	CodeUnknownItem       = "UNKNOWN_ITEM"
	CodeAlreadyOwned      = "ALREADY_OWNED"
	CodeInsufficientCoins = "INSUFFICIENT_COINS"
	CodeInvalidAmount     = "INVALID_AMOUNT"
)

// Buy purchases a catalog item for a player. Duplicate purchases and
// purchases the player cannot afford are rejected. Buying a theme also
// activates it.
func Buy(s *State, playerID, itemID string) (*State, error) {
	player := s.PlayerByID(playerID)
	if player == nil {
		return s, oops.Code(CodeUnknownPlayer).
			With("player_id", playerID).
			Errorf("no such player")
	}
	item := CatalogItem(itemID)
	if item == nil {
		return s, oops.Code(CodeUnknownItem).
			With("item_id", itemID).
			Errorf("no such shop item")
	}
	if player.Owns(item.ID) {
		return s, oops.Code(CodeAlreadyOwned).
			With("message", "You already own this item!").
			Errorf("player %s already owns item %s", playerID, itemID)
	}
	if player.Coins < item.Cost {
		return s, oops.Code(CodeInsufficientCoins).
			With("message", "Not enough coins!").
			With("cost", item.Cost).
			With("coins", player.Coins).
			Errorf("player %s cannot afford item %s", playerID, itemID)
	}

	next := s.Clone()
	buyer := next.PlayerByID(playerID)
	buyer.Coins -= item.Cost
	buyer.Inventory = append(buyer.Inventory, *item)
	if item.Type == ItemTypeTheme && item.Theme != nil {
		buyer.Theme = *item.Theme
	}
	return next, nil
}

// Donate transfers coins between players. Non-positive amounts and amounts
// the donor cannot cover are rejected.
func Donate(s *State, fromID, toID string, amount int) (*State, error) {
	if amount <= 0 {
		return s, oops.Code(CodeInvalidAmount).
			With("message", "Donation must be a positive amount.").
			With("amount", amount).
			Errorf("invalid donation amount")
	}
	from := s.PlayerByID(fromID)
	to := s.PlayerByID(toID)
	if from == nil || to == nil {
		return s, oops.Code(CodeUnknownPlayer).
			With("from_id", fromID).
			With("to_id", toID).
			Errorf("unknown donor or recipient")
	}
	if from.Coins < amount {
		return s, oops.Code(CodeInsufficientCoins).
			With("message", "Not enough coins!").
			Errorf("player %s cannot donate %d coins", fromID, amount)
	}

	next := s.Clone()
	next.PlayerByID(fromID).Coins -= amount
	next.PlayerByID(toID).Coins += amount
	return next, nil
}

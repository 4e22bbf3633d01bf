// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package game

// ItemType categorizes shop wares.
type ItemType string

// Item types.
const (
	ItemTypeTheme ItemType = "theme"
	ItemTypeTool  ItemType = "tool"
)

// Theme is a purchasable UI skin. The class name is opaque to the core.
type Theme struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
	Cost      int    `json:"cost"`
}

// Item is a purchasable stim: a theme, a one-shot tool, or a multi-use
// consumable. Uses is zero for items that never deplete.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cost        int      `json:"cost"`
	Type        ItemType `json:"type"`
	Theme       *Theme   `json:"theme,omitempty"`
	Uses        int      `json:"uses,omitempty"`
}

// Well-known item ids.
const (
	ItemInspirationSpark = "s1"
	ItemWordWeave        = "s2"
	ItemEditorsEye       = "s3"
	ItemHealthPotion     = "s4"
)

// Themes is the fixed theme catalog. The first entry is free and active by
// default.
var Themes = []Theme{
	{ID: "t1", Name: "Midnight Quill", ClassName: "theme-midnight", Cost: 0},
	{ID: "t2", Name: "Arcade Dream", ClassName: "theme-arcade", Cost: 100},
	{ID: "t3", Name: "Ancient Scroll", ClassName: "theme-scroll", Cost: 150},
	{ID: "t4", Name: "Solaris", ClassName: "theme-solaris", Cost: 200},
}

// DefaultTheme returns the free starting theme.
func DefaultTheme() Theme {
	return Themes[0]
}

// ShopCatalog returns the full shop inventory: every paid theme plus the
// tool stims.
func ShopCatalog() []Item {
	var items []Item
	for i := range Themes {
		if Themes[i].Cost == 0 {
			continue
		}
		theme := Themes[i]
		items = append(items, Item{
			ID:          theme.ID,
			Name:        theme.Name + " Theme",
			Description: "A new visual theme for your UI.",
			Cost:        theme.Cost,
			Type:        ItemTypeTheme,
			Theme:       &theme,
		})
	}
	items = append(items,
		Item{ID: ItemInspirationSpark, Name: "Inspiration Spark", Description: "Generates a random word to inspire you.", Cost: 50, Type: ItemTypeTool},
		Item{ID: ItemWordWeave, Name: "Word Weave", Description: "Highlights complex sentences in your last entry.", Cost: 75, Type: ItemTypeTool},
		Item{ID: ItemEditorsEye, Name: "Editor's Eye", Description: "Get instant, AI-powered constructive feedback on your current draft.", Cost: 200, Type: ItemTypeTool},
		Item{ID: ItemHealthPotion, Name: "Health Potion", Description: "Heals 1 heart after writing if injured. Contains 3 doses.", Cost: 10, Type: ItemTypeTool, Uses: 3},
	)
	return items
}

// CatalogItem returns the catalog entry with the given id, or nil if absent.
func CatalogItem(id string) *Item {
	catalog := ShopCatalog()
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i]
		}
	}
	return nil
}

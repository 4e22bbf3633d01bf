// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package world contains the location graph domain types and builder.
package world

// DefaultDescription is assigned to locations authored without one.
// The adjacency-list format carries names only.
const DefaultDescription = "A mysterious location."

// Location represents a named place in the story world.
// Connections are directed: A listing B does not imply B lists A.
type Location struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Connections []string `json:"connections"`
}

// ConnectsTo reports whether the location has a directed connection to id.
func (l *Location) ConnectsTo(id string) bool {
	for _, conn := range l.Connections {
		if conn == id {
			return true
		}
	}
	return false
}

// Find returns the location with the given id, or nil if absent.
func Find(locations []Location, id string) *Location {
	for i := range locations {
		if locations[i].ID == id {
			return &locations[i]
		}
	}
	return nil
}

// FindByName returns the location with the given name, or nil if absent.
func FindByName(locations []Location, name string) *Location {
	for i := range locations {
		if locations[i].Name == name {
			return &locations[i]
		}
	}
	return nil
}

// Adjacency re-derives the name-level adjacency from a location set.
// Connection ids that do not resolve are skipped.
func Adjacency(locations []Location) map[string][]string {
	adj := make(map[string][]string, len(locations))
	for i := range locations {
		names := make([]string, 0, len(locations[i].Connections))
		for _, id := range locations[i].Connections {
			if dest := Find(locations, id); dest != nil {
				names = append(names, dest.Name)
			}
		}
		adj[locations[i].Name] = names
	}
	return adj
}

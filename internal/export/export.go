// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package export renders a finished session to plain text files.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"

	"github.com/chronicle-siege/chronicle/internal/game"
)

// Story renders the transcript with a title header.
func Story(s *game.State) string {
	var b strings.Builder
	title := strings.TrimSpace(s.Settings.StoryPrompt)
	if title == "" {
		title = "An Untitled Chronicle"
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	b.WriteString(s.Story)
	b.WriteString("\n")
	return b.String()
}

// Journal renders every player's brainstorming journal, one section per
// player in roster order.
func Journal(s *game.State) string {
	var b strings.Builder
	for i := range s.Settings.Players {
		player := &s.Settings.Players[i]
		fmt.Fprintf(&b, "----- %s -----\n", player.Name)
		entries := s.Journal[player.ID]
		if len(entries) == 0 {
			b.WriteString("No entries.\n")
		} else {
			for _, entry := range entries {
				b.WriteString(entry)
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Bible renders the shared story bible.
func Bible(s *game.State) string {
	return strings.TrimSpace(s.StoryBible) + "\n"
}

// WriteFile writes rendered content to path.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return oops.With("path", path).Wrapf(err, "write export")
	}
	return nil
}

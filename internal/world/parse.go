// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package world

import (
	"fmt"
	"strings"
)

// Parse builds the location graph from a human-authored adjacency list.
//
// Each non-blank line has the form "Source > Dest1, Dest2, ..."; the "> ..."
// suffix is optional. Parsing is deliberately lenient: destination names that
// never resolve are dropped, and a later line for the same source overwrites
// its earlier connection list.
//
// Ids are assigned sequentially in first-seen order (loc0, loc1, ...), so the
// same input always produces the same ids.
func Parse(input string) []Location {
	lines := splitLines(input)

	// Pass 1: register every source and destination name in first-seen order.
	index := make(map[string]int)
	var locations []Location
	register := func(name string) {
		if _, ok := index[name]; ok {
			return
		}
		index[name] = len(locations)
		locations = append(locations, Location{
			ID:          fmt.Sprintf("loc%d", len(locations)),
			Name:        name,
			Description: DefaultDescription,
		})
	}

	for _, line := range lines {
		source, dests, hasDests := splitLine(line)
		register(source)
		if !hasDests {
			continue
		}
		for _, dest := range dests {
			register(dest)
		}
	}

	// Pass 2: resolve destination names to ids. Unresolvable names are
	// silently dropped; a repeated source line wins over earlier ones.
	for _, line := range lines {
		source, dests, hasDests := splitLine(line)
		if !hasDests {
			continue
		}
		conns := make([]string, 0, len(dests))
		for _, dest := range dests {
			if i, ok := index[dest]; ok {
				conns = append(conns, locations[i].ID)
			}
		}
		locations[index[source]].Connections = conns
	}

	return locations
}

// splitLines returns the trimmed, non-blank lines of the input.
func splitLines(input string) []string {
	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitLine separates a line into its source name and destination names.
// hasDests is false when the line carries no ">" suffix.
func splitLine(line string) (source string, dests []string, hasDests bool) {
	parts := strings.SplitN(line, ">", 2)
	source = strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return source, nil, false
	}
	for _, name := range strings.Split(parts[1], ",") {
		dests = append(dests, strings.TrimSpace(name))
	}
	return source, dests, true
}

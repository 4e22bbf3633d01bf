// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/game"
	"github.com/chronicle-siege/chronicle/internal/session"
)

func TestResolveOffline(t *testing.T) {
	players, err := session.ResolveOffline([]string{"Ada", "  ", "Niamh"})

	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "p1", players[0].ID)
	assert.Equal(t, "Ada", players[0].Name)
	assert.Equal(t, "Player 2", players[1].Name, "blank names get placeholders")
	assert.Equal(t, "p3", players[2].ID)

	for _, p := range players {
		assert.Equal(t, game.StartingHearts, p.Hearts)
		assert.Equal(t, game.DefaultTheme(), p.Theme)
		require.Len(t, p.Characters, 1)
	}
}

func TestResolveOffline_Empty(t *testing.T) {
	_, err := session.ResolveOffline(nil)
	assert.Error(t, err)
}

func TestResolveOnline_NormalizesOrder(t *testing.T) {
	roster := []session.Participant{
		{ID: "zz-peer", Name: "Zoe"},
		{ID: "aa-peer", Name: "Ana"},
		{ID: "mm-peer", Name: "Mo"},
	}

	players, err := session.ResolveOnline(roster)

	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, []string{"aa-peer", "mm-peer", "zz-peer"},
		[]string{players[0].ID, players[1].ID, players[2].ID},
		"players are ordered by id so every peer agrees")
	assert.Equal(t, "Ana", players[0].Name)
}

func TestHostID(t *testing.T) {
	roster := []session.Participant{
		{ID: "peer-c"}, {ID: "peer-a"}, {ID: "peer-b"},
	}
	assert.Equal(t, "peer-a", session.HostID(roster))
	assert.Equal(t, "", session.HostID(nil))
}

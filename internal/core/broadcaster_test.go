// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/core"
	"github.com/chronicle-siege/chronicle/internal/game"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := core.NewBroadcaster()
	first := b.Subscribe()
	second := b.Subscribe()

	state := &game.State{GameID: "g", Turn: 2}
	b.Broadcast(state)

	for _, ch := range []chan *game.State{first, second} {
		select {
		case got := <-ch:
			assert.Same(t, state, got)
		default:
			t.Fatal("subscriber did not receive the snapshot")
		}
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := core.NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open, "unsubscribed channel is closed")

	// Broadcasting afterwards must not panic.
	b.Broadcast(&game.State{GameID: "g"})
}

func TestBroadcaster_FullBufferDoesNotBlock(t *testing.T) {
	b := core.NewBroadcaster()
	ch := b.Subscribe()

	// Overfill the subscriber buffer; the broadcaster drops rather than stalls.
	for i := 0; i < 50; i++ {
		b.Broadcast(&game.State{GameID: "g", Turn: i})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	assert.Greater(t, drained, 0)
	assert.Less(t, drained, 50)
}

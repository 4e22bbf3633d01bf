// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package core

import (
	"log/slog"
	"sync"

	"github.com/chronicle-siege/chronicle/internal/game"
)

// Broadcaster distributes state snapshots to local watchers: the rendering
// layer, the turn timer, exports. Watchers receive the post-transition state
// only; they never see intermediate mutations because there are none.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []chan *game.State
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe creates a channel for receiving snapshots.
func (b *Broadcaster) Subscribe() chan *game.State {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *game.State, 16)
	b.subs = append(b.subs, ch)
	return ch
}

// Unsubscribe removes a channel and closes it.
func (b *Broadcaster) Unsubscribe(ch chan *game.State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Broadcast sends a snapshot to all watchers. A watcher with a full buffer
// misses this snapshot; the next one carries the complete state anyway, so
// nothing is lost for long.
func (b *Broadcaster) Broadcast(state *game.State) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- state:
		default:
			slog.Warn("snapshot dropped: watcher buffer full",
				"game_id", state.GameID,
				"turn", state.Turn,
			)
		}
	}
}

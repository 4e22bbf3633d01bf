// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package timer runs the per-turn countdown.
package timer

import (
	"context"
	"sync"
	"time"
)

// Countdown ticks down once per second while running and fires an expiry
// callback when it reaches zero. It can be paused, resumed, and reset for
// the next turn. All methods are safe for concurrent use.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	onExpire  func()
	onTick    func(remaining int)
}

// New builds a countdown. onTick may be nil; onExpire fires exactly once per
// Reset when the timer hits zero.
func New(onExpire func(), onTick func(remaining int)) *Countdown {
	return &Countdown{onExpire: onExpire, onTick: onTick}
}

// Reset arms the countdown with a fresh duration in seconds and unpauses it.
func (c *Countdown) Reset(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = seconds
	c.paused = false
}

// Pause freezes the countdown.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume unfreezes the countdown.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Run ticks until the context is cancelled. It owns the ticking goroutine's
// lifetime; callers usually run it once for the whole session and steer it
// with Reset and Pause.
func (c *Countdown) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.paused || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	expired := remaining == 0
	onTick, onExpire := c.onTick, c.onExpire
	c.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if expired && onExpire != nil {
		onExpire()
	}
}

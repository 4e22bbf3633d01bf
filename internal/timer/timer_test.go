// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCountdown_TicksToExpiry(t *testing.T) {
	var expired bool
	var ticks []int
	c := New(func() { expired = true }, func(remaining int) { ticks = append(ticks, remaining) })
	c.Reset(3)

	for i := 0; i < 5; i++ {
		c.tick()
	}

	assert.Equal(t, []int{2, 1, 0}, ticks, "ticking stops at zero")
	assert.True(t, expired)
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdown_PauseAndResume(t *testing.T) {
	c := New(nil, nil)
	c.Reset(5)

	c.tick()
	c.Pause()
	c.tick()
	c.tick()
	assert.Equal(t, 4, c.Remaining(), "paused timer does not tick")

	c.Resume()
	c.tick()
	assert.Equal(t, 3, c.Remaining())
}

func TestCountdown_ResetRearms(t *testing.T) {
	fired := 0
	c := New(func() { fired++ }, nil)

	c.Reset(1)
	c.tick()
	require.Equal(t, 1, fired)

	c.tick()
	assert.Equal(t, 1, fired, "expiry fires once per reset")

	c.Reset(1)
	c.tick()
	assert.Equal(t, 2, fired)
}

func TestCountdown_RunStopsOnCancel(t *testing.T) {
	c := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Run(ctx)
	}()

	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

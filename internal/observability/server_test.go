// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package observability_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/observability"
)

func startServer(t *testing.T, ready observability.ReadinessChecker) *observability.Server {
	t.Helper()
	server := observability.NewServer("127.0.0.1:0", ready)
	_, err := server.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestServer_Metrics(t *testing.T) {
	server := startServer(t, nil)

	status, body := get(t, "http://"+server.Addr()+"/metrics")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "chronicle_monsters_spawned_total")
	assert.Contains(t, body, "chronicle_relay_slow_consumer_drops_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_HealthProbes(t *testing.T) {
	ready := false
	server := startServer(t, func() bool { return ready })

	status, body := get(t, "http://"+server.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)

	status, body = get(t, "http://"+server.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready\n", body)

	ready = true
	status, _ = get(t, "http://"+server.Addr()+"/healthz/readiness")
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_DoubleStartRejected(t *testing.T) {
	server := startServer(t, nil)

	_, err := server.Start()
	assert.Error(t, err)
}

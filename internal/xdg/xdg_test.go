// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package xdg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/xdg"
)

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/chronicle", xdg.ConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/writer")
	assert.Equal(t, "/home/writer/.config/chronicle", xdg.ConfigDir())
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, "/custom/data/chronicle", xdg.DataDir())

	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/writer")
	assert.Equal(t, "/home/writer/.local/share/chronicle", xdg.DataDir())
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/chronicle", xdg.StateDir())
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, xdg.EnsureDir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

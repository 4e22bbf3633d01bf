// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := config.Load("", nil)

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8420", cfg.Relay.Listen)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	assert.Empty(t, cfg.AI.APIKey)
	assert.NotEmpty(t, cfg.Export.Dir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log:\n  format: text\nrelay:\n  listen: \":9000\"\nai:\n  api_key: sk-test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":9000", cfg.Relay.Listen)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "info", cfg.Log.Level, "untouched keys keep defaults")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log.level", "info", "")
	flags.String("log.format", "json", "")
	require.NoError(t, flags.Parse([]string{"--log.level=warn"}))

	cfg, err := config.Load(path, flags)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level, "flags win over the file")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	_, err := config.Load("", nil)
	assert.NoError(t, err)
}

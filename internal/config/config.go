// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

// Package config loads the chronicle configuration: defaults, then an
// optional YAML file, then command-line flags, each layer overriding the
// last.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/chronicle-siege/chronicle/internal/xdg"
)

// Config is the full chronicle configuration.
type Config struct {
	Log           Log           `koanf:"log"`
	Relay         Relay         `koanf:"relay"`
	Session       Session       `koanf:"session"`
	AI            AI            `koanf:"ai"`
	Observability Observability `koanf:"observability"`
	Export        Export        `koanf:"export"`
}

// Log configures structured logging.
type Log struct {
	Format string `koanf:"format"` // "json" or "text"
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error"
}

// Relay configures the fan-out relay server.
type Relay struct {
	Listen string `koanf:"listen"`
}

// Session configures joining or hosting an online game.
type Session struct {
	RelayURL string `koanf:"relay_url"`
	Name     string `koanf:"name"`
}

// AI configures the content generator. An empty APIKey selects the static
// fallback generator.
type AI struct {
	BaseURL    string `koanf:"base_url"`
	APIKey     string `koanf:"api_key"`
	Model      string `koanf:"model"`
	ImageModel string `koanf:"image_model"`
}

// Observability configures the metrics and health endpoint.
type Observability struct {
	Listen string `koanf:"listen"`
}

// Export configures where finished stories are written.
type Export struct {
	Dir string `koanf:"dir"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.format":           "json",
		"log.level":            "info",
		"relay.listen":         ":8420",
		"session.relay_url":    "ws://127.0.0.1:8420",
		"session.name":         "",
		"ai.base_url":          "https://api.openai.com/v1",
		"ai.api_key":           "",
		"ai.model":             "gpt-4o-mini",
		"ai.image_model":       "",
		"observability.listen": "127.0.0.1:9420",
		"export.dir":           xdg.DataDir(),
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), "config.yaml")
}

// Load builds the configuration. path may be empty, in which case the
// default location is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Wrapf(err, "load defaults")
	}

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing default file is fine; a missing explicit one is not.
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, oops.With("path", path).Wrapf(err, "load config file")
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Wrapf(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Wrapf(err, "unmarshal config")
	}
	return &cfg, nil
}

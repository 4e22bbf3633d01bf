// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chronicle Siege Contributors

package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-siege/chronicle/internal/logging"
)

func TestLogError_OopsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("INSUFFICIENT_COINS").With("cost", 200).Errorf("cannot afford item")
	logging.LogError(logger, "purchase failed", err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "purchase failed", record["msg"])
	assert.Equal(t, "INSUFFICIENT_COINS", record["code"])
	assert.Contains(t, record["error"], "cannot afford item")
}

func TestLogError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.LogError(logger, "boom", errors.New("plain failure"))

	assert.Contains(t, buf.String(), "plain failure")
}

func TestLogError_NilIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.LogError(logger, "nothing", nil)

	assert.Zero(t, buf.Len())
}

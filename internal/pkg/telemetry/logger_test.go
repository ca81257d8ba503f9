package telemetry_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"coffeeshop/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, "info").With("component", "test")

	ctx := telemetry.WithRequestID(t.Context(), "req-42")
	logger.InfoContext(ctx, "order submitted")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-42", record["request_id"])
	assert.Equal(t, "test", record["component"])
	assert.Equal(t, "order submitted", record["msg"])
}

func TestContextHandler_WithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := telemetry.NewLogger(&buf, "info")

	logger.InfoContext(t.Context(), "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "request_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, telemetry.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, telemetry.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, telemetry.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, telemetry.ParseLevel(""))
}

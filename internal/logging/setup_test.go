package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		expectedLevel log.Level
		debugEnabled  bool
	}{
		{name: "trace level", logLevel: "trace", expectedLevel: log.DebugLevel, debugEnabled: true},
		{name: "debug level", logLevel: "debug", expectedLevel: log.DebugLevel, debugEnabled: true},
		{name: "info level", logLevel: "info", expectedLevel: log.InfoLevel},
		{name: "warning level", logLevel: "warning", expectedLevel: log.WarnLevel},
		{name: "error level", logLevel: "ERROR", expectedLevel: log.ErrorLevel},
		{name: "unknown level", logLevel: "loud", expectedLevel: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := SetupHandlerText(tt.logLevel, buf)

			logger, ok := handler.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())
			assert.Equal(t, tt.debugEnabled, handler.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestSetupHandlerText_Writes(t *testing.T) {
	buf := &bytes.Buffer{}
	slog.New(SetupHandlerText("info", buf)).Info("fetch failed", "container", "users")

	assert.Contains(t, buf.String(), "fetch failed")
	assert.Contains(t, buf.String(), "container=users")
}

func TestSetupHandlerJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := SetupHandlerJSON("warn", buf)

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelWarn))

	slog.New(handler).Warn("write failed", "field", "Name")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "write failed", entry["msg"])
	assert.Equal(t, "Name", entry["field"])
}

func TestSetup(t *testing.T) {
	h, err := Setup("", "debug", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &log.Logger{}, h)

	h, err = Setup("JSON", "debug", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &slog.JSONHandler{}, h)

	_, err = Setup("xml", "debug", nil)
	assert.Error(t, err)
}

func TestValidateLevel(t *testing.T) {
	for _, l := range append(Levels, "", "INFO") {
		assert.NoError(t, ValidateLevel(l), l)
	}

	assert.Error(t, ValidateLevel("verbose"))
}

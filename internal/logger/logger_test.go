package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/app-finder-mcp/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"empty defaults to info", "", zerolog.InfoLevel},
		{"trace level", "trace", zerolog.TraceLevel},
		{"debug level", "debug", zerolog.DebugLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"warning level", "warning", zerolog.WarnLevel},
		{"error level", "error", zerolog.ErrorLevel},
		{"uppercase INFO", "INFO", zerolog.InfoLevel},
		{"padded Debug", " Debug ", zerolog.DebugLevel},
		{"unknown defaults to info", "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "debug", Format: "json"}, &buf)
	t.Cleanup(func() { log = zerolog.Nop() })

	Warn().Str("alias", "wa").Msg("alias collision")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "wa", entry["alias"])
	assert.Equal(t, "alias collision", entry["message"])
}

func TestInitWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LoggerConfig{Level: "error", Format: "console"}, &buf)
	t.Cleanup(func() { log = zerolog.Nop() })

	Info().Msg("dropped")
	Error().Msg("kept")

	out := buf.String()
	assert.False(t, strings.Contains(out, "dropped"))
	assert.True(t, strings.Contains(out, "kept"))
}

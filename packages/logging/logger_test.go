package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"trace", zerolog.TraceLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
		{"bogus", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewJSON_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON("info", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("tx", "abc").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "abc", entry["tx"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf, true)

	logger.Debug().Str("state", "closing").Msg("transaction state")

	out := buf.String()
	assert.Contains(t, out, "transaction state")
	assert.Contains(t, out, "state=closing")
}

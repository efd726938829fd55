package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line, "expected a log line")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestJSONOutputFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", false)

	log.Info().
		Str("table", "users").
		Int("columns", 4).
		Int64("rows", 12).
		Bool("grouped", true).
		Dur("elapsed", 1500*time.Millisecond).
		Strs("fields", []string{"id", "name"}).
		Err(errors.New("boom")).
		Msg("introspected")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "introspected", entry["message"])
	assert.Equal(t, "users", entry["table"])
	assert.EqualValues(t, 4, entry["columns"])
	assert.EqualValues(t, 12, entry["rows"])
	assert.Equal(t, true, entry["grouped"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, []any{"id", "name"}, entry["fields"])
	assert.Contains(t, entry, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", false)

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden too")
	assert.Empty(t, buf.String())

	log.Warn().Msgf("visible %d", 1)
	entry := decodeLine(t, &buf)
	assert.Equal(t, "visible 1", entry["message"])
}

func TestWithFieldsMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", false).WithFields(map[string]any{
		"run_id":  "abc",
		"db.pass": "hunter2",
	})

	log.Info().Str("password", "hunter2").Str("host", "db.local").Msg("connecting")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, DefaultMaskValue, entry["db.pass"])
	assert.Equal(t, DefaultMaskValue, entry["password"])
	assert.Equal(t, "db.local", entry["host"])
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", true)
	log.Info().Str("path", "/users").Msg("documented")

	out := buf.String()
	assert.Contains(t, out, "documented")
	assert.Contains(t, out, "/users")
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	assert.NotPanics(t, func() {
		log.Error().Err(errors.New("x")).Interface("k", map[string]any{"a": 1}).Msg("ignored")
		log.WithFields(map[string]any{"a": 1}).Info().Msg("ignored")
	})
}

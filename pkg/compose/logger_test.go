package compose

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

// captureLogs routes the package logger into a buffer for the test.
func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	baseLoggerMu.RLock()
	previous := baseLogger
	baseLoggerMu.RUnlock()
	t.Cleanup(func() { SetLogger(previous) })

	var buf bytes.Buffer
	SetupLogger(&buf, level)
	return &buf
}

func TestGetLoggerComponent(t *testing.T) {
	buf := captureLogs(t, "debug")

	logger := GetLogger("writer")
	logger.Info().Str("path", "out.docx").Msg("Document written")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "writer", entry["component"])
	assert.Equal(t, "out.docx", entry["path"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetupLoggerLevel(t *testing.T) {
	buf := captureLogs(t, "warn")

	logger := GetLogger("assembler")
	logger.Debug().Msg("hidden")
	logger.Info().Msg("hidden too")
	logger.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "shown"))
}

func TestSetupLoggerOff(t *testing.T) {
	buf := captureLogs(t, "off")
	logger := GetLogger("writer")
	logger.Error().Msg("nothing")
	assert.Empty(t, buf.String())
}

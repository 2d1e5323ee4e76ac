package compose

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	baseLogger   = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	baseLoggerMu sync.RWMutex
)

// ParseLogLevel maps a configuration level name to a zerolog level.
// Unknown names fall back to info; "off" disables logging.
func ParseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// SetupLogger configures the package logger to write to w at the given
// level. A nil writer selects a console writer on stderr.
func SetupLogger(w io.Writer, level string) {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	SetLogger(zerolog.New(w).With().Timestamp().Logger().Level(ParseLogLevel(level)))
}

// SetLogger replaces the package logger
func SetLogger(l zerolog.Logger) {
	baseLoggerMu.Lock()
	defer baseLoggerMu.Unlock()
	baseLogger = l
}

// GetLogger returns a logger tagged with the given component name
func GetLogger(component string) zerolog.Logger {
	baseLoggerMu.RLock()
	defer baseLoggerMu.RUnlock()
	return baseLogger.With().Str("component", component).Logger()
}

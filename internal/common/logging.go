// Package common provides shared utilities for Folio
package common

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// Logger wraps phuslu log.Logger to provide a consistent interface
type Logger struct {
	log.Logger
}

// parseLevel maps a config level name to a phuslu level.
// Unknown names fall back to info.
func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLogger creates a console logger with the specified level
func NewLogger(level string) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer: &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}}
}

// NewLoggerWithOutput creates a JSON logger writing to a specific output
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer:     &log.IOWriter{Writer: w},
	}}
}

// NewLoggerFromConfig creates a logger from the logging section of the config.
// Level "disabled" discards all output. Format "console" writes human-readable
// lines to stderr, anything else writes JSON. When FilePath is set the JSON
// stream goes to that file instead.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	if strings.EqualFold(cfg.Level, "disabled") {
		return NewSilentLogger()
	}

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			return NewLoggerWithOutput(cfg.Level, f)
		}
		// Fall through to stderr when the file cannot be opened
	}

	if strings.EqualFold(cfg.Format, "console") {
		return NewLogger(cfg.Level)
	}
	return NewLoggerWithOutput(cfg.Level, os.Stderr)
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	return &Logger{Logger: log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}}
}

// Wayfinder - Embedded Travel Recommendation Learner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package logging configures the process-wide zerolog logger and provides
// context propagation for request and correlation identifiers.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level emitted (trace, debug, info, warn, error).
	// Default: info
	Level string

	// Format selects "json" or "console" output.
	// Default: json
	Format string

	// Output overrides the destination. Nil writes to stderr.
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init builds the global logger from cfg. Safe to call more than once; the
// last call wins.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	SetLogger(l)
}

// parseLevel maps a level name onto a zerolog level. Unknown names fall back
// to info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the current global logger. The pointer points at a copy:
// zerolog's level methods have pointer receivers, so a value return could
// not be chained, and a pointer into the guarded global would race with
// SetLogger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// SetLogger replaces the global logger. Tests use this to capture output.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// With returns a child logger tagged with a component name.
func With(component string) *zerolog.Logger {
	l := Logger().With().Str("component", component).Logger()
	return &l
}

// NewTestLogger returns a debug-level logger writing to out, independent of
// the global logger. Tests use it to capture output without Init.
func NewTestLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

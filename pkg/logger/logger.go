// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the JSON slog logger used by the HTTP server.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the environment variable that sets the log level.
const LevelEnv = "LOG_LEVEL"

// New returns a JSON logger writing to stdout at the level named by LOG_LEVEL.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, os.Getenv(LevelEnv))
}

// NewWithWriter returns a JSON logger writing to w at the named level.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(handler).With("service", "paper-digest")
}

// ParseLevel maps debug, warn and error to their levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLevelEnvVar is always consulted for the log level, whatever the executable is called.
const DefaultLevelEnvVar = "NCMBATCH_LOG_LEVEL"

type loggerKey struct{}

// LevelVar holds the level shared by every logger built by this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is a pretty console logger that is used if no logger is provided.
// It writes to stderr so it never interleaves with the per-item status lines on stdout.
var DefaultLogger = slog.New(NewPrettyHandler(&slog.HandlerOptions{
	Level: LevelVar,
},
	WithAutoColour(),
	WithDestinationWriter(os.Stderr),
))

// JSONLogger writes one JSON object per record to stderr.
var JSONLogger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
	Level: LevelVar,
}))

func init() {
	LevelVar.Set(logLevelFromEnv())
}

// New returns a child context carrying logger.
// If logger is nil, the default logger is used.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// NewWriterLogger returns an uncoloured pretty logger writing to w.
// The TUI uses it to keep log records off the terminal while it owns the screen.
func NewWriterLogger(w io.Writer) *slog.Logger {
	return slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: LevelVar}, WithDestinationWriter(w)))
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Info(msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Debug(msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Warn(msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).Error(msg, args...)
}

// ParseLevel converts a level name to a slog.Level. Names are case-insensitive.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}

// levelEnvVars returns the variables checked for the log level, most specific first.
// The first is derived from the executable name, e.g. "myapp" reads MYAPP_LOG_LEVEL.
func levelEnvVars() []string {
	exec, _ := os.Executable()
	exec = strings.TrimSuffix(filepath.Base(exec), ".exe")

	derived := strings.ToUpper(exec) + "_LOG_LEVEL"
	if derived == DefaultLevelEnvVar || exec == "" {
		return []string{DefaultLevelEnvVar}
	}

	return []string{derived, DefaultLevelEnvVar}
}

func logLevelFromEnv() slog.Level {
	for _, name := range levelEnvVars() {
		if lvl, ok := ParseLevel(os.Getenv(name)); ok {
			return lvl
		}
	}

	return slog.LevelWarn
}

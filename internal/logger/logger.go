// Package logger provides structured logging for the spotidump CLI.
// Debug and info records are only emitted in verbose mode (--verbose);
// warnings and errors are always written. Output goes to stderr so it
// never mixes with command output on stdout.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	format  = "text"
	output  io.Writer = os.Stderr
	level   = new(slog.LevelVar)
	log     = newLogger()
)

func init() {
	level.Set(slog.LevelWarn)
}

// newLogger builds a logger for the current format and output.
// Callers must hold mu or be in package initialisation.
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger()
}

// SetFormat selects "text" (default) or "json" records.
// Unknown formats fall back to text.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != "json" {
		f = "text"
	}
	format = f
	log = newLogger()
}

// Logger returns the current structured logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a debug record if verbose mode is enabled.
func Debug(msg string, args ...any) {
	emit(slog.LevelDebug, msg, args...)
}

// Info logs an informational record if verbose mode is enabled.
func Info(msg string, args ...any) {
	emit(slog.LevelInfo, msg, args...)
}

// Warn logs a warning.
func Warn(msg string, args ...any) {
	emit(slog.LevelWarn, msg, args...)
}

// Error logs an error.
func Error(msg string, args ...any) {
	emit(slog.LevelError, msg, args...)
}

func emit(lvl slog.Level, msg string, args ...any) {
	Logger().Log(context.Background(), lvl, msg, args...)
}

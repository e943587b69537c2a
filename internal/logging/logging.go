// Package logging provides a shared, structured logger for notes-layout.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// NOTES_LAYOUT_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// Usage:
//
//	log := logging.New("resolver")     // creates a logger tagged with component="resolver"
//	log.Info("resolved layout", "note", id)
//	log.Error("failed to read tags", "error", err)
//
// By default output goes to stderr. Configure replaces the sinks, fanning
// records out to several writers; the terminal UI uses it to send logs to a
// file only so they do not interfere with the rendered screen.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	// initLogger ensures the base handler is created exactly once.
	initLogger sync.Once

	// level is shared by every sink so Configure and the environment
	// variable agree.
	level = new(slog.LevelVar)

	// root forwards to the currently configured handler. Component loggers
	// are derived from it, so loggers created before Configure pick up the
	// new sinks.
	root = &swapHandler{}
)

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every log entry
// produced by the returned logger. If component is empty, the base logger is
// returned without any additional attributes.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		level.Set(parseLevel(os.Getenv("NOTES_LAYOUT_LOG_LEVEL")))
		root.set(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	})
	base := slog.New(root)
	if component == "" {
		return base
	}
	return base.With("component", component)
}

// Configure routes log output to writers. With no writers logging is
// discarded. Each writer gets a text handler at the shared level.
func Configure(writers ...io.Writer) {
	New("")
	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		if w == nil {
			continue
		}
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
	root.set(slogmulti.Fanout(handlers...))
}

// SetLevel overrides the level parsed from the environment.
func SetLevel(value string) {
	New("")
	level.Set(parseLevel(value))
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

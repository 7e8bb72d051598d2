package magpen

import (
	"log/slog"
	"sync/atomic"
)

// discard is returned by Logger while no logger is configured.
var discard = slog.New(slog.DiscardHandler)

// current holds the configured logger, or nil for silence.
var current atomic.Pointer[slog.Logger]

// SetLogger configures the logger shared by magpen and its sub-packages
// (engine, reference, integration/headless). Pass nil to go back to the
// default, which discards everything.
//
// Levels:
//   - [slog.LevelDebug]: buffer sizes, pipeline creation, worker counts
//   - [slog.LevelInfo]: adapter selection, restarts
//   - [slog.LevelWarn]: CPU fallback
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the configured logger. It never returns nil.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return discard
}

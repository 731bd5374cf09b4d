package shaderview

import (
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger shared by shaderview and its sub-packages.
// Nothing is logged until it is called; nil silences logging again.
//
// Levels:
//   - [slog.LevelDebug]: per-frame detail (acquired image, frame slot)
//   - [slog.LevelInfo]: swapchain creation, scene switches, pipeline builds
//   - [slog.LevelWarn]: stale swapchains, shader compile failures
//   - [slog.LevelError]: device loss
//
// Components capture the logger when they are created, so call SetLogger
// before opening a render context.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger.Store(l)
}

// Logger returns the shared logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Load()
}

// ComponentLogger returns the shared logger tagged with component=name.
func ComponentLogger(name string) *slog.Logger {
	return Logger().With("component", name)
}

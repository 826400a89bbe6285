package winrender

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip building attributes entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with renderer construction on another goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for winrender and its backend packages.
// By default winrender produces no log output.
//
// Pass nil to restore the default silent behavior.
//
// Log levels used by winrender:
//   - [slog.LevelDebug]: GPU resource lifecycle (targets rebuilt, swapchain recreated)
//   - [slog.LevelInfo]: backend selected, Vulkan adapter found
//   - [slog.LevelWarn]: backend construction failed and a fallback is tried
//
// Example:
//
//	winrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by winrender.
// Backend packages call this so they share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

package portal3d

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all log records; Enabled returns false so messages are never formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for portal3d and its sub-packages. By default, portal3d produces no log output.
// Pass nil to silence logging again.
//
// Log levels used by portal3d:
//   - [slog.LevelDebug]: resource lifecycle (shaders, buffers, render targets created and released)
//   - [slog.LevelInfo]: portal links and model loads
//   - [slog.LevelWarn]: non-fatal oddities (degenerate projections, missing textures)
//
// Example:
//
//	portal3d.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by portal3d. The ebitengpu backend logs through it as well.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

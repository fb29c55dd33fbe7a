// Package cli implements the gridboard command-line interface.
//
// Every command opens the configured board, applies one intent through
// the session controller and saves before exiting, so a sequence of
// commands behaves like a sequence of edits in the interactive editor.
//
// # Commands
//
//   - add, move, resize, edit, delete: block intents
//   - undo, redo, history, clear: history navigation
//   - select, preview, show: UI state and rendering
//   - editor: interactive full-screen editor
//   - serve: HTTP API over the board
//   - store: inspect, reset, export and import persisted boards
//
// # Logging
//
// Log lines go to stderr through charmbracelet/log; command results go to
// stdout. --verbose (-v) lowers the level to debug, which shows absorbed
// rejections such as moves onto an occupied span. Commands hand their
// logger down to the session and server through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger prefixed with the app name. Timestamps use
// "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logElapsed logs msg at info level with an elapsed=... field measured
// from start.
func logElapsed(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))
	l.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

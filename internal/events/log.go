package events

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/suiteplan/internal/ctxlog"
)

// LogReporter writes every event to the context logger.
type LogReporter struct{}

func (LogReporter) Report(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx)
	level := slog.LevelDebug
	switch ev.Type {
	case LibraryFailed:
		level = slog.LevelError
	case NodeBlocked:
		level = slog.LevelWarn
	case ResolveFinished:
		level = slog.LevelInfo
	}

	attrs := []any{"event", string(ev.Type)}
	if ev.Node != "" {
		attrs = append(attrs, "node", ev.Node)
	}
	if ev.Cause != "" {
		attrs = append(attrs, "cause", ev.Cause)
	}
	if ev.Error != "" {
		attrs = append(attrs, "error", ev.Error)
	}
	for k, v := range ev.Data {
		attrs = append(attrs, k, v)
	}
	logger.Log(ctx, level, "Build event.", attrs...)
}

func (LogReporter) Close() error { return nil }

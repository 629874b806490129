// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"log/slog"

	"github.com/lumenary/telemetry/lib/events"
)

// ConsoleMirror wraps another EventSink and additionally mirrors
// every log event to a log/slog.Logger synchronously, on the emitting
// goroutine. Wrapping rather than building this into HTTPSink keeps
// the best-effort shipping path and the local-echo path independently
// composable.
type ConsoleMirror struct {
	EventSink
	logger *slog.Logger
}

// NewConsoleMirror wraps next, echoing log events to logger.
func NewConsoleMirror(next EventSink, logger *slog.Logger) *ConsoleMirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMirror{EventSink: next, logger: logger}
}

func (m *ConsoleMirror) LogEnabled(target string, level events.Level) bool {
	return m.EventSink.LogEnabled(target, level)
}

func (m *ConsoleMirror) OnLog(event events.LogStringInteropEvent) {
	m.logger.Log(context.Background(), slogLevel(event.Level), event.Msg.String(), "target", event.Target.ID)
	m.EventSink.OnLog(event)
}

func slogLevel(level events.Level) slog.Level {
	switch level {
	case events.LevelError:
		return slog.LevelError
	case events.LevelWarn:
		return slog.LevelWarn
	case events.LevelDebug, events.LevelTrace:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

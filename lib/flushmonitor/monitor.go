// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package flushmonitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/clock"
	"github.com/lumenary/telemetry/lib/hostclock"
)

// Sink is the subset of sink.EventSink the monitor needs: a busy
// signal it uses to avoid competing with an already-loaded shipping
// path.
type Sink interface {
	IsBusy() bool
}

// ThreadStreams enumerates the dynamically-registered per-thread span
// streams a process has opened. The monitor cannot safely lock and
// rotate these itself — each belongs to whichever goroutine is
// currently emitting spans on it — so it only flags them via
// MarkFull, deferring the actual rotation to that thread's next
// emission.
type ThreadStreams interface {
	ForEach(fn func(*block.Stream))
}

// RotateFunc performs a full force-rotation of a singleton stream the
// Dispatch owns directly (log or metric): lock, swap in a fresh
// block, seal the old one, and hand it to the sink. The monitor
// supplies the current DualTime; everything else is the Dispatch's
// concern.
type RotateFunc func(now block.DualTime) error

// Config holds the parameters for a Monitor. All fields except Logger
// and ThreadStreams are required.
type Config struct {
	// Sink reports whether the shipping path is currently busy.
	Sink Sink

	// Clock drives the check ticker. Production callers pass
	// clock.Real(); tests pass clock.Fake() for deterministic control.
	Clock clock.Clock

	// Source provides DualTime stamps for rotated blocks.
	Source hostclock.Source

	// FlushDelay is how long a stream may sit with unshipped events
	// before the monitor force-rotates it. A nominal default of 60
	// seconds balances ingest latency against per-block overhead for
	// low-traffic streams.
	FlushDelay time.Duration

	// CheckInterval is how often the monitor wakes up to evaluate
	// FlushDelay. Must be smaller than FlushDelay to bound the delay
	// between the deadline passing and the flush actually firing.
	CheckInterval time.Duration

	// RotateLog force-rotates the log stream.
	RotateLog RotateFunc

	// RotateMetric force-rotates the metric stream.
	RotateMetric RotateFunc

	// ThreadStreams enumerates span streams to mark full. May be nil
	// if the process never opens any.
	ThreadStreams ThreadStreams

	// Logger receives flush activity and failures. Defaults to
	// slog.Default() if nil.
	Logger *slog.Logger
}

// Monitor periodically force-rotates idle streams. Start it with Run
// in its own goroutine; cancel the context to stop it.
type Monitor struct {
	cfg       Config
	lastFlush time.Time
}

// New builds a Monitor from cfg, initializing its flush clock to
// cfg.Clock.Now().
func New(cfg Config) *Monitor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CheckInterval <= 0 {
		panic("flushmonitor: CheckInterval must be positive")
	}
	return &Monitor{cfg: cfg, lastFlush: cfg.Clock.Now()}
}

// Run blocks until ctx is cancelled, waking up every CheckInterval to
// evaluate whether a flush is due.
func (m *Monitor) Run(ctx context.Context) {
	ticker := m.cfg.Clock.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.maybeFlush()
		case <-ctx.Done():
			return
		}
	}
}

// maybeFlush force-rotates the log and metric streams and flags every
// thread stream, but only if the sink is idle and FlushDelay has
// elapsed since the last flush of either kind.
func (m *Monitor) maybeFlush() {
	if m.cfg.Sink.IsBusy() {
		return
	}

	now := m.cfg.Clock.Now()
	if now.Sub(m.lastFlush) <= m.cfg.FlushDelay {
		return
	}
	m.lastFlush = now

	stamp := block.Now(m.cfg.Source)

	if err := m.cfg.RotateLog(stamp); err != nil {
		m.cfg.Logger.Warn("telemetry: flush monitor failed to rotate log stream", "error", err)
	}
	if err := m.cfg.RotateMetric(stamp); err != nil {
		m.cfg.Logger.Warn("telemetry: flush monitor failed to rotate metric stream", "error", err)
	}
	if m.cfg.ThreadStreams != nil {
		m.cfg.ThreadStreams.ForEach(func(s *block.Stream) {
			s.MarkFull()
		})
	}
}

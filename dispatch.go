// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/clock"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/flushmonitor"
	"github.com/lumenary/telemetry/lib/guid"
	"github.com/lumenary/telemetry/lib/hostclock"
	"github.com/lumenary/telemetry/lib/sink"
	"github.com/lumenary/telemetry/lib/telemetryconfig"
	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

const (
	logStreamID    = "log"
	metricStreamID = "metric"
)

// Dispatch is the process-wide telemetry state: the log and metric
// streams, the dynamically-registered thread-span streams, the sink
// they ship to, and the flush monitor that keeps idle streams from
// sitting on unshipped data indefinitely.
//
// Callers never construct a Dispatch directly; Init builds one and
// installs it as the package-wide singleton every exported function
// reads.
type Dispatch struct {
	settings telemetryconfig.Settings
	source   hostclock.Source
	guid     guid.Allocator
	sink     sink.EventSink
	logger   *slog.Logger

	logStream    *block.Stream
	metricStream *block.Stream
	threads      *threadStreamSet

	monitorCancel context.CancelFunc
	monitorDone   chan struct{}

	shutdownOnce sync.Once
}

var current atomic.Pointer[Dispatch]

// Init starts the process-wide Dispatch: it ships a process-startup
// envelope, opens the log and metric streams, starts the flush
// monitor, and installs itself as the target of every package-level
// function. Calling Init twice without an intervening Shutdown
// returns an error.
func Init(settings telemetryconfig.Settings, s sink.EventSink, logger *slog.Logger) error {
	if current.Load() != nil {
		return fmt.Errorf("telemetry: Init called while already initialized")
	}
	if logger == nil {
		logger = slog.Default()
	}

	source := hostclock.Real()
	alloc := guid.Real()
	processID := alloc.New()

	d := &Dispatch{
		settings: settings,
		source:   source,
		guid:     alloc,
		sink:     s,
		logger:   logger,
		threads:  newThreadStreamSet(),
	}

	if err := s.OnStartup(buildProcessEnvelope(processID, source)); err != nil {
		return fmt.Errorf("telemetry: OnStartup: %w", err)
	}

	begin := block.Now(source)
	d.logStream = block.NewStream(processID, logStreamID, []string{"log"}, nil, events.LogObjectSerializers,
		settings.Streams.LogCapacityBytes, settings.Streams.LogPaddingBytes, begin)
	d.metricStream = block.NewStream(processID, metricStreamID, []string{"metric"}, nil, events.MetricObjectSerializers,
		settings.Streams.MetricCapacityBytes, settings.Streams.MetricPaddingBytes, begin)

	if err := s.OnInitLogStream(streamInitEnvelope(d.logStream, envelope.LogObjectUDTs())); err != nil {
		return fmt.Errorf("telemetry: OnInitLogStream: %w", err)
	}
	if err := s.OnInitMetricStream(streamInitEnvelope(d.metricStream, envelope.MetricObjectUDTs())); err != nil {
		return fmt.Errorf("telemetry: OnInitMetricStream: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.monitorCancel = cancel
	d.monitorDone = make(chan struct{})
	monitor := flushmonitor.New(flushmonitor.Config{
		Sink:          s,
		Clock:         clock.Real(),
		Source:        source,
		FlushDelay:    settings.FlushDelay,
		CheckInterval: settings.FlushCheckInterval,
		RotateLog:     d.rotateLogStream,
		RotateMetric:  d.rotateMetricStream,
		ThreadStreams: d.threads,
		Logger:        logger,
	})
	go func() {
		defer close(d.monitorDone)
		monitor.Run(ctx)
	}()

	current.Store(d)
	return nil
}

// Shutdown stops the flush monitor, force-ships every stream's
// current block (log, metric, and every still-open thread-span
// stream), and tells the sink to drain and close. Calling Shutdown
// before Init, or twice, is a no-op.
func Shutdown() error {
	d := current.Load()
	if d == nil {
		return nil
	}
	current.Store(nil)

	var shutdownErr error
	d.shutdownOnce.Do(func() {
		d.monitorCancel()
		<-d.monitorDone

		stamp := block.Now(d.source)
		if err := d.rotateLogStream(stamp); err != nil {
			d.logger.Warn("telemetry: shutdown failed to ship final log block", "error", err)
		}
		if err := d.rotateMetricStream(stamp); err != nil {
			d.logger.Warn("telemetry: shutdown failed to ship final metric block", "error", err)
		}
		d.threads.ForEach(func(s *block.Stream) {
			if err := d.rotateThreadStream(s, stamp); err != nil {
				d.logger.Warn("telemetry: shutdown failed to ship final thread block", "stream_id", s.StreamID, "error", err)
			}
		})

		shutdownErr = d.sink.OnShutdown()
	})
	return shutdownErr
}

func streamInitEnvelope(s *block.Stream, udts []envelope.UDT) envelope.StreamInitEnvelope {
	return envelope.StreamInitEnvelope{
		StreamID:             s.StreamID,
		ProcessID:            s.ProcessID,
		DependenciesMetadata: envelope.DependencyUDTs(),
		ObjectsMetadata:      udts,
		Tags:                 s.Tags,
		Properties:           s.Properties,
	}
}

// rotateLogStream force-rotates the log stream regardless of its
// current fill level: seals the current block and ships it, then
// installs a fresh one.
func (d *Dispatch) rotateLogStream(now block.DualTime) error {
	return forceRotate(d.logStream, now, d.sink.OnProcessLogBlock)
}

func (d *Dispatch) rotateMetricStream(now block.DualTime) error {
	return forceRotate(d.metricStream, now, d.sink.OnProcessMetricBlock)
}

func (d *Dispatch) rotateThreadStream(s *block.Stream, now block.DualTime) error {
	return forceRotate(s, now, d.sink.OnProcessSpanBlock)
}

// forceRotate unconditionally swaps in a fresh block and ships the
// sealed old one, holding s's lock for the swap but not for the ship
// call: the lock is dropped before ship runs so a full sink queue
// never stalls every producer still writing to s's new current block.
// The old block is shipped even if it recorded zero events, so a
// sink always observes a matching on_process_*_block call for every
// rotation.
func forceRotate(s *block.Stream, now block.DualTime, ship func(*block.Block) error) error {
	_, unlock := s.Lock(context.Background())
	next := s.NewSuccessorBlock(now)
	old := s.SwapBlocks(next)
	unlock()

	old.Close(now)
	return ship(old)
}

// emit rotates s if it has reached its full threshold, then runs push
// against whichever block is now current — all under s's lock, except
// for the ship call on the rotated-out block, which runs after the
// lock is dropped so that a full sink queue never blocks a producer
// holding s's lock.
func emit(s *block.Stream, source hostclock.Source, logger *slog.Logger, ship func(*block.Block) error, push func(q *transit.Queue)) {
	_, unlock := s.Lock(context.Background())

	var old *block.Block
	if s.IsFull() {
		next := s.NewSuccessorBlock(block.Now(source))
		old = s.SwapBlocks(next)
		old.Close(block.Now(source))
	}
	push(s.Current().Queue)
	unlock()

	if old != nil {
		if err := ship(old); err != nil {
			logger.Warn("telemetry: failed to ship rotated block", "stream_id", old.StreamID, "error", err)
		}
	}
}

// resolveTargetString returns the decoded bytes of a StringRef built
// by wire.InternStaticString, for use in sink.LogEnabled precheck
// calls. registry is nil: only HostInterned refs need one, and
// Dispatch never constructs those itself.
func resolveTargetString(ref wire.StringRef) string {
	bytes, _ := ref.Resolve(nil)
	return string(bytes)
}

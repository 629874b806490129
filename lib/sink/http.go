// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/extract"
	"github.com/lumenary/telemetry/lib/guid"
	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

// blockKind labels a queued block for logging only. Every kind ships
// to the same endpoint — the stream it belongs to is identified by
// BlockHeader.StreamID inside the envelope, not by the URL — so a
// decoder tells blocks apart by the UDT schema its earlier stream-init
// envelope supplied for that stream_id.
type blockKind int

const (
	kindLog blockKind = iota
	kindMetric
	kindThread
)

func (k blockKind) String() string {
	switch k {
	case kindLog:
		return "log"
	case kindMetric:
		return "metric"
	default:
		return "thread"
	}
}

// HTTPSink ships blocks to a remote ingestion endpoint over HTTP.
// Every OnProcess*/OnInit*/OnStartup call packages a task onto an
// internal channel and returns immediately; OnShutdown closes the
// channel and blocks until it is drained.
// One background goroutine drains the channel and does all network,
// compression, and JSON work. Delivery is best-effort: a failed PUT
// is logged and never retried (wrap with WithRetryBuffer for durable
// delivery).
type HTTPSink struct {
	baseURL   string
	transport Transport
	guid      guid.Allocator
	registry  wire.InternRegistry
	logger    *slog.Logger
	minLevel  events.Level

	tasks     chan func(ctx context.Context)
	queueSize atomic.Int64

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// NewHTTPSink starts the background worker and returns a ready
// HTTPSink. registry resolves HostInterned StringRef identities
// during dependency extraction; it may be nil if the host never uses
// HostInterned strings.
func NewHTTPSink(baseURL string, transport Transport, alloc guid.Allocator, registry wire.InternRegistry, logger *slog.Logger, minLevel events.Level) *HTTPSink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &HTTPSink{
		baseURL:   baseURL,
		transport: transport,
		guid:      alloc,
		registry:  registry,
		logger:    logger,
		minLevel:  minLevel,
		tasks:     make(chan func(ctx context.Context), 256),
		closed:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *HTTPSink) run() {
	defer close(s.done)
	ctx := context.Background()
	for task := range s.tasks {
		task(ctx)
		s.queueSize.Add(-1)
	}
}

// enqueue packages fn as a shipping task. It is a no-op once Shutdown
// has started draining: Dispatch is responsible for not emitting
// after Shutdown, but the sink itself stays defensive in case a
// caller races the shutdown.
func (s *HTTPSink) enqueue(fn func(ctx context.Context)) {
	select {
	case <-s.closed:
		return
	default:
	}
	s.queueSize.Add(1)
	s.tasks <- fn
}

func (s *HTTPSink) IsBusy() bool { return s.queueSize.Load() > 0 }

func (s *HTTPSink) LogEnabled(target string, level events.Level) bool {
	return level <= s.minLevel || s.minLevel == 0
}

func (s *HTTPSink) OnLog(events.LogStringInteropEvent) {}

func (s *HTTPSink) OnStartup(process envelope.ProcessEnvelope) error {
	s.enqueue(func(ctx context.Context) {
		if err := s.transport.PutJSON(ctx, s.baseURL+"/process", process); err != nil {
			s.logger.Warn("telemetry: failed to ship process envelope", "error", err)
		}
	})
	return nil
}

func (s *HTTPSink) OnShutdown() error {
	s.closeOnce.Do(func() { close(s.closed) })
	close(s.tasks)
	<-s.done
	return nil
}

func (s *HTTPSink) OnInitLogStream(stream envelope.StreamInitEnvelope) error    { return s.shipStreamInit(stream) }
func (s *HTTPSink) OnInitMetricStream(stream envelope.StreamInitEnvelope) error { return s.shipStreamInit(stream) }
func (s *HTTPSink) OnInitSpanStream(stream envelope.StreamInitEnvelope) error   { return s.shipStreamInit(stream) }

func (s *HTTPSink) shipStreamInit(stream envelope.StreamInitEnvelope) error {
	s.enqueue(func(ctx context.Context) {
		if err := s.transport.PutJSON(ctx, s.baseURL+"/stream", stream); err != nil {
			s.logger.Warn("telemetry: failed to ship stream-init envelope", "stream_id", stream.StreamID, "error", err)
		}
	})
	return nil
}

func (s *HTTPSink) OnProcessLogBlock(b *block.Block) error {
	return s.shipBlock(kindLog, b, extract.LogDependencies)
}

func (s *HTTPSink) OnProcessMetricBlock(b *block.Block) error {
	return s.shipBlock(kindMetric, b, extract.MetricDependencies)
}

func (s *HTTPSink) OnProcessSpanBlock(b *block.Block) error {
	return s.shipBlock(kindThread, b, extract.SpanDependencies)
}

func (s *HTTPSink) shipBlock(kind blockKind, b *block.Block, extractDeps func(*block.Block, wire.InternRegistry) (*transit.Queue, error)) error {
	s.enqueue(func(ctx context.Context) {
		deps, err := extractDeps(b, s.registry)
		if err != nil {
			s.logger.Warn("telemetry: dependency extraction failed, shipping block without deps", "stream_id", b.StreamID, "error", err)
			deps = transit.New(0, events.DependencyQueueSerializers...)
		}
		header := envelope.BlockHeader{
			BlockID:    s.guid.New(),
			StreamID:   b.StreamID,
			BeginTime:  b.Begin.Wall,
			BeginTicks: b.Begin.Cycles,
			EndTime:    b.End.Wall,
			EndTicks:   b.End.Cycles,
			NbObjects:  b.NbEvents(),
		}
		payload, err := envelope.FormatBlock(header, deps, b.Queue)
		if err != nil {
			s.logger.Warn("telemetry: failed to format block envelope", "stream_id", b.StreamID, "error", err)
			return
		}
		if err := s.transport.PutBinary(ctx, s.baseURL+"/block", payload); err != nil {
			s.logger.Warn("telemetry: failed to ship block", "kind", kind, "stream_id", b.StreamID, "error", err)
		}
	})
	return nil
}

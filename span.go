// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"sync"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/transit"
)

// threadStreamSet is the registry of dynamically-opened thread-span
// streams a process has acquired. Go has no notion of a thread ID to
// key this by, so each caller holds its own *SpanStream handle instead
// of the library tracking one per OS thread or goroutine.
type threadStreamSet struct {
	mu      sync.Mutex
	streams []*block.Stream
}

func newThreadStreamSet() *threadStreamSet {
	return &threadStreamSet{}
}

func (t *threadStreamSet) register(s *block.Stream) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.streams = append(t.streams, s)
}

// ForEach implements flushmonitor.ThreadStreams.
func (t *threadStreamSet) ForEach(fn func(*block.Stream)) {
	t.mu.Lock()
	snapshot := append([]*block.Stream(nil), t.streams...)
	t.mu.Unlock()

	for _, s := range snapshot {
		fn(s)
	}
}

// SpanStream is a caller-held handle to one thread's span stream.
// Unlike Log or IntMetric, which operate on the one process-wide log
// and metric stream, spans are per-thread: acquire a SpanStream once
// per goroutine (or whatever unit of concurrency the host organizes
// spans by) and hold onto it for that unit's lifetime — explicitly,
// since Go exposes no thread-local storage to do this implicitly.
type SpanStream struct {
	d      *Dispatch
	stream *block.Stream
}

// AcquireSpanStream opens a new thread-span stream named name and
// registers it with the process-wide Dispatch so the flush monitor and
// Shutdown can reach it. Returns an error if Init has not been called.
func AcquireSpanStream(name string) (*SpanStream, error) {
	d := current.Load()
	if d == nil {
		return nil, fmt.Errorf("telemetry: AcquireSpanStream called before Init")
	}
	return d.acquireSpanStream(name)
}

func (d *Dispatch) acquireSpanStream(name string) (*SpanStream, error) {
	begin := block.Now(d.source)
	s := block.NewStream(d.logStream.ProcessID, name, []string{"thread"}, nil, events.SpanObjectSerializers,
		d.settings.Streams.ThreadCapacityBytes, d.settings.Streams.ThreadPaddingBytes, begin)

	if err := d.sink.OnInitSpanStream(streamInitEnvelope(s, envelope.SpanObjectUDTs())); err != nil {
		return nil, fmt.Errorf("telemetry: OnInitSpanStream: %w", err)
	}
	d.threads.register(s)
	return &SpanStream{d: d, stream: s}, nil
}

// Begin records the start of a span identified by desc. desc should
// be a package-level descriptor built once with a call-site
// NewSpanMetadata, not constructed per call.
func (s *SpanStream) Begin(desc *events.SpanMetadata) {
	event := events.BeginThreadSpanEvent{Desc: desc, Ts: s.d.source.Cycles()}
	emit(s.stream, s.d.source, s.d.logger, s.d.sink.OnProcessSpanBlock, func(q *transit.Queue) { q.Push(event) })
}

// End records the end of a span identified by desc.
func (s *SpanStream) End(desc *events.SpanMetadata) {
	event := events.EndThreadSpanEvent{Desc: desc, Ts: s.d.source.Cycles()}
	emit(s.stream, s.d.source, s.d.logger, s.d.sink.OnProcessSpanBlock, func(q *transit.Queue) { q.Push(event) })
}

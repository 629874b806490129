// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
)

// EventSink is the set of callbacks Dispatch defers to: process and
// stream lifecycle notifications, sealed blocks ready for shipment,
// and a log-enabled precheck plus an immediate synchronous mirror
// callback, so a sink can echo a log record to a local console the
// instant it's emitted without waiting for its block to ship.
type EventSink interface {
	OnStartup(process envelope.ProcessEnvelope) error
	OnShutdown() error

	OnInitLogStream(stream envelope.StreamInitEnvelope) error
	OnInitMetricStream(stream envelope.StreamInitEnvelope) error
	OnInitSpanStream(stream envelope.StreamInitEnvelope) error

	// OnProcessLogBlock, OnProcessMetricBlock, and OnProcessSpanBlock
	// hand a sealed block to the sink for shipment. b is owned by the
	// sink for the lifetime of the shipping task; the sink performs
	// dependency extraction, compression, and envelope formatting
	// itself, not the caller.
	OnProcessLogBlock(b *block.Block) error
	OnProcessMetricBlock(b *block.Block) error
	OnProcessSpanBlock(b *block.Block) error

	// IsBusy reports whether the sink's shipping queue is non-empty,
	// the flush monitor's signal to skip a tick rather than pile on
	// more work.
	IsBusy() bool

	// LogEnabled lets an emitter skip building a log event entirely
	// when the sink would discard it anyway (e.g. a level filter).
	LogEnabled(target string, level events.Level) bool

	// OnLog is called synchronously, on the emitting goroutine, for
	// every log event that passes LogEnabled — before the event is
	// queued for shipping. It exists so a sink can mirror log output
	// to a local destination (console, host log routing) with no
	// shipping latency; it must not block on network I/O.
	OnLog(event events.LogStringInteropEvent)
}

// NullSink discards everything. Useful as a default before Init
// configures a real sink, and in tests that only care about emission
// behavior, not delivery.
type NullSink struct{}

func (NullSink) OnStartup(envelope.ProcessEnvelope) error { return nil }
func (NullSink) OnShutdown() error                        { return nil }

func (NullSink) OnInitLogStream(envelope.StreamInitEnvelope) error    { return nil }
func (NullSink) OnInitMetricStream(envelope.StreamInitEnvelope) error { return nil }
func (NullSink) OnInitSpanStream(envelope.StreamInitEnvelope) error   { return nil }

func (NullSink) OnProcessLogBlock(*block.Block) error    { return nil }
func (NullSink) OnProcessMetricBlock(*block.Block) error { return nil }
func (NullSink) OnProcessSpanBlock(*block.Block) error   { return nil }

func (NullSink) IsBusy() bool { return false }

func (NullSink) LogEnabled(string, events.Level) bool { return false }
func (NullSink) OnLog(events.LogStringInteropEvent)   {}

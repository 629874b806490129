// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"

	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

// Log emits a static-string log event from desc, the fast path for a
// call site whose message text is known at compile time. desc should
// be a package-level *events.LogMetadata built once via
// events.NewLogMetadata, not constructed on every call — its address
// is the event's wire identity for the lifetime of the process.
//
// A no-op before Init, after Shutdown, or when the sink's level
// filter would discard it anyway.
func Log(desc *events.LogMetadata) {
	d := current.Load()
	if d == nil {
		return
	}
	if !d.sink.LogEnabled(resolveTargetString(desc.Target), desc.Level) {
		return
	}
	ts := d.source.Cycles()

	// Synchronous mirror happens before the event is queued for
	// shipping, same as Logf: a console echo never waits on network
	// I/O. desc's message text is embedded at compile time, so it
	// resolves without a registry.
	msg, _ := desc.Msg.Resolve(nil)
	d.sink.OnLog(events.LogStringInteropEvent{
		Ts:     ts,
		Level:  desc.Level,
		Target: desc.Target,
		Msg:    wire.NewDynamicString(string(msg)),
	})

	event := events.LogStaticStrEvent{Desc: desc, Ts: ts}
	emit(d.logStream, d.source, d.logger, d.sink.OnProcessLogBlock, func(q *transit.Queue) { q.Push(event) })
}

// Logf emits a runtime-formatted log message. target must be a string
// literal or package-level constant — like desc in Log, its identity
// is derived from its backing array's address, which is only stable
// for compile-time strings. Use Log instead when the message text
// itself is also known at compile time; Logf exists for interop with
// code that builds messages dynamically (fmt.Sprintf-style).
//
// A no-op before Init, after Shutdown, or when the sink's level
// filter would discard it.
func Logf(target string, level events.Level, format string, args ...any) {
	d := current.Load()
	if d == nil {
		return
	}
	if !d.sink.LogEnabled(target, level) {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	event := events.LogStringInteropEvent{
		Ts:     d.source.Cycles(),
		Level:  level,
		Target: wire.InternStaticString(target),
		Msg:    wire.NewDynamicString(msg),
	}

	// Synchronous mirror happens before the event is queued for
	// shipping, so a console echo never waits on network I/O.
	d.sink.OnLog(event)
	emit(d.logStream, d.source, d.logger, d.sink.OnProcessLogBlock, func(q *transit.Queue) { q.Push(event) })
}

// LogEnabled reports whether a log at level for target would be kept
// by the current sink's filter. Callers can use this to skip building
// expensive log arguments when the answer is false. Returns false
// before Init or after Shutdown.
func LogEnabled(target string, level events.Level) bool {
	d := current.Load()
	if d == nil {
		return false
	}
	return d.sink.LogEnabled(target, level)
}

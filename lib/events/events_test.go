// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"testing"

	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

func newLogObjectQueue() *transit.Queue {
	return transit.New(256, LogObjectSerializers...)
}

func newMetricObjectQueue() *transit.Queue {
	return transit.New(256, MetricObjectSerializers...)
}

func newSpanObjectQueue() *transit.Queue {
	return transit.New(256, SpanObjectSerializers...)
}

func newDependencyQueue() *transit.Queue {
	return transit.New(256, DependencyQueueSerializers...)
}

var testLogMeta = NewLogMetadata("net", "hello", "a.cc", 7, LevelInfo)

func TestLogStaticStrEventRoundtrip(t *testing.T) {
	q := newLogObjectQueue()
	q.Push(LogStaticStrEvent{Desc: testLogMeta, Ts: 1000})

	var got LogStaticStrEvent
	if err := q.ForEach(func(tag uint8, value any) error {
		got = value.(LogStaticStrEvent)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	if got.Ts != 1000 {
		t.Fatalf("expected ts=1000, got %d", got.Ts)
	}
	if got.Desc != testLogMeta {
		t.Fatalf("expected round-tripped descriptor pointer to equal the original")
	}
	if got.Desc.Level != LevelInfo || got.Desc.Line != 7 {
		t.Fatalf("expected level=Info line=7, got level=%v line=%d", got.Desc.Level, got.Desc.Line)
	}
}

// TestLogStaticStrEventDecodeUnregisteredDescriptor covers the
// cross-process case: a descriptor built without NewLogMetadata is
// never added to logMetadataRegistry, so decoding an event that
// points at it must come back with Desc nil and DescID carrying the
// raw wire id, never a pointer reconstructed from that id.
func TestLogStaticStrEventDecodeUnregisteredDescriptor(t *testing.T) {
	unregistered := &LogMetadata{
		Target: wire.InternStaticString("net"),
		Msg:    wire.InternStaticString("hello"),
		File:   wire.InternStaticString("a.cc"),
		Line:   7,
		Level:  LevelInfo,
	}
	q := newLogObjectQueue()
	q.Push(LogStaticStrEvent{Desc: unregistered, Ts: 1000})

	var got LogStaticStrEvent
	if err := q.ForEach(func(tag uint8, value any) error {
		got = value.(LogStaticStrEvent)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	if got.Desc != nil {
		t.Fatalf("expected nil Desc for an unregistered descriptor, got %+v", got.Desc)
	}
	if got.DescID != unregistered.ID() {
		t.Fatalf("expected DescID %d, got %d", unregistered.ID(), got.DescID)
	}
}

func TestLogStringInteropEventRoundtrip(t *testing.T) {
	q := newLogObjectQueue()
	target := wire.InternStaticString("net")
	event := LogStringInteropEvent{
		Ts:     2000,
		Level:  LevelWarn,
		Target: target,
		Msg:    wire.NewDynamicString("connection reset"),
	}
	q.Push(event)

	var got LogStringInteropEvent
	if err := q.ForEach(func(tag uint8, value any) error {
		got = value.(LogStringInteropEvent)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	if got.Ts != 2000 || got.Level != LevelWarn {
		t.Fatalf("unexpected header: %+v", got)
	}
	if got.Target.ID != target.ID {
		t.Fatalf("expected target identity %d, got %d", target.ID, got.Target.ID)
	}
	if got.Msg.String() != "connection reset" {
		t.Fatalf("expected message %q, got %q", "connection reset", got.Msg.String())
	}
}

func TestMetricEventsRoundtrip(t *testing.T) {
	meta := NewMetricMetadata(VerbosityDefault, "cpu.load", "percent", "sched", "sched.go", 42)
	q := newMetricObjectQueue()
	q.Push(IntegerMetricEvent{Desc: meta, Value: 7, Ts: 100})
	q.Push(FloatMetricEvent{Desc: meta, Value: 3.5, Ts: 200})

	var got []any
	if err := q.ForEach(func(tag uint8, value any) error {
		got = append(got, value)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	intEvent := got[0].(IntegerMetricEvent)
	if intEvent.Value != 7 || intEvent.Desc != meta {
		t.Fatalf("unexpected integer metric event: %+v", intEvent)
	}
	floatEvent := got[1].(FloatMetricEvent)
	if floatEvent.Value != 3.5 || floatEvent.Desc != meta {
		t.Fatalf("unexpected float metric event: %+v", floatEvent)
	}
}

func TestSpanEventsRoundtrip(t *testing.T) {
	meta := NewSpanMetadata("render_frame", "render", "render.go", 10)
	q := newSpanObjectQueue()
	q.Push(BeginThreadSpanEvent{Desc: meta, Ts: 10})
	q.Push(EndThreadSpanEvent{Desc: meta, Ts: 20})

	var got []any
	if err := q.ForEach(func(tag uint8, value any) error {
		got = append(got, value)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	begin := got[0].(BeginThreadSpanEvent)
	end := got[1].(EndThreadSpanEvent)
	if begin.Desc != meta || end.Desc != meta {
		t.Fatal("expected both span events to reference the same descriptor")
	}
	if begin.Ts != 10 || end.Ts != 20 {
		t.Fatalf("unexpected timestamps: begin=%d end=%d", begin.Ts, end.Ts)
	}
}

func TestDependencyRecordsRoundtrip(t *testing.T) {
	q := newDependencyQueue()

	strDep := NewStaticStringDependency(testLogMeta.Target, []byte("net"))
	logDep := NewLogMetadataDependency(testLogMeta)
	q.Push(strDep)
	q.Push(logDep)

	var got []any
	if err := q.ForEach(func(tag uint8, value any) error {
		got = append(got, value)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	decodedStr := got[0].(StaticStringDependency)
	if decodedStr.ID != testLogMeta.Target.ID || string(decodedStr.Bytes) != "net" {
		t.Fatalf("unexpected string dependency: %+v", decodedStr)
	}

	decodedLog := got[1].(LogMetadataDependency)
	if decodedLog.ID != testLogMeta.ID() || decodedLog.Line != 7 || decodedLog.Level != LevelInfo {
		t.Fatalf("unexpected log metadata dependency: %+v", decodedLog)
	}
}

func TestMetricAndSpanMetadataDependencyRoundtrip(t *testing.T) {
	metric := NewMetricMetadata(VerbosityDefault, "cpu.load", "percent", "sched", "sched.go", 42)
	span := NewSpanMetadata("render_frame", "render", "render.go", 10)

	q := newDependencyQueue()
	q.Push(NewMetricMetadataDependency(metric))
	q.Push(NewSpanMetadataDependency(span))

	var got []any
	if err := q.ForEach(func(tag uint8, value any) error {
		got = append(got, value)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	metricDep := got[0].(MetricMetadataDependency)
	if metricDep.ID != metric.ID() || metricDep.Line != 42 {
		t.Fatalf("unexpected metric metadata dependency: %+v", metricDep)
	}
	spanDep := got[1].(SpanMetadataDependency)
	if spanDep.ID != span.ID() || spanDep.Line != 10 {
		t.Fatalf("unexpected span metadata dependency: %+v", spanDep)
	}
}

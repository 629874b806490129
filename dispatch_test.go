// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/telemetryconfig"
)

type recordingSink struct {
	mu sync.Mutex

	startups     []envelope.ProcessEnvelope
	streamInits  []envelope.StreamInitEnvelope
	logBlocks    []*block.Block
	metricBlocks []*block.Block
	spanBlocks   []*block.Block
	loggedEvents []events.LogStringInteropEvent
	shutdowns    int
	minLevel     events.Level
}

func (s *recordingSink) OnStartup(p envelope.ProcessEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups = append(s.startups, p)
	return nil
}

func (s *recordingSink) OnShutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
	return nil
}

func (s *recordingSink) OnInitLogStream(st envelope.StreamInitEnvelope) error    { return s.recordInit(st) }
func (s *recordingSink) OnInitMetricStream(st envelope.StreamInitEnvelope) error { return s.recordInit(st) }
func (s *recordingSink) OnInitSpanStream(st envelope.StreamInitEnvelope) error   { return s.recordInit(st) }

func (s *recordingSink) recordInit(st envelope.StreamInitEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamInits = append(s.streamInits, st)
	return nil
}

func (s *recordingSink) OnProcessLogBlock(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logBlocks = append(s.logBlocks, b)
	return nil
}

func (s *recordingSink) OnProcessMetricBlock(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metricBlocks = append(s.metricBlocks, b)
	return nil
}

func (s *recordingSink) OnProcessSpanBlock(b *block.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spanBlocks = append(s.spanBlocks, b)
	return nil
}

func (s *recordingSink) IsBusy() bool { return false }

func (s *recordingSink) LogEnabled(target string, level events.Level) bool {
	min := s.minLevel
	if min == 0 {
		min = events.LevelTrace
	}
	return level <= min
}

func (s *recordingSink) OnLog(event events.LogStringInteropEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedEvents = append(s.loggedEvents, event)
}

func (s *recordingSink) counts() (logBlocks, metricBlocks, spanBlocks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logBlocks), len(s.metricBlocks), len(s.spanBlocks)
}

func testSettings() telemetryconfig.Settings {
	return telemetryconfig.Settings{
		IngestBaseURL:      "http://ingest.local",
		HTTPTimeout:        5 * time.Second,
		MinLogLevel:        events.LevelTrace,
		FlushDelay:         time.Hour,
		FlushCheckInterval: time.Minute,
		MaxMetricVerbosity: events.VerbosityDefault,
		Streams: telemetryconfig.StreamsConfig{
			LogCapacityBytes:    4096,
			LogPaddingBytes:     128,
			MetricCapacityBytes: 4096,
			MetricPaddingBytes:  32,
			ThreadCapacityBytes: 4096,
			ThreadPaddingBytes:  32,
		},
	}
}

func initForTest(t *testing.T) *recordingSink {
	t.Helper()
	s := &recordingSink{}
	if err := Init(testSettings(), s, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Shutdown() })
	return s
}

func TestInitTwiceErrors(t *testing.T) {
	_ = initForTest(t)
	if err := Init(testSettings(), &recordingSink{}, nil); err == nil {
		t.Fatal("expected error calling Init twice")
	}
}

func TestPackageFunctionsNoopBeforeInit(t *testing.T) {
	if LogEnabled("x", events.LevelInfo) {
		t.Fatal("expected LogEnabled false before Init")
	}
	// Must not panic.
	Log(events.NewLogMetadata("x", "hello", "f.go", 1, events.LevelInfo))
	Logf("x", events.LevelInfo, "hello %d", 1)
	IntMetric(events.NewMetricMetadata(events.VerbosityDefault, "m", "unit", "x", "f.go", 1), 1)
	FloatMetric(events.NewMetricMetadata(events.VerbosityDefault, "m", "unit", "x", "f.go", 1), 1.5)
	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown before Init should be a no-op, got %v", err)
	}
}

func TestInitShipsProcessAndStreamInitEnvelopes(t *testing.T) {
	s := initForTest(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.startups) != 1 {
		t.Fatalf("expected 1 process startup envelope, got %d", len(s.startups))
	}
	if len(s.streamInits) != 2 {
		t.Fatalf("expected 2 stream-init envelopes (log, metric), got %d", len(s.streamInits))
	}
}

var testLogDesc = events.NewLogMetadata("dispatch_test", "fixed message", "dispatch_test.go", 0, events.LevelInfo)

func TestLogEmitsStaticEvent(t *testing.T) {
	s := initForTest(t)
	Log(testLogDesc)

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	logBlocks, _, _ := s.counts()
	if logBlocks == 0 {
		t.Fatal("expected at least one shipped log block")
	}
}

func TestLogMirrorsToSink(t *testing.T) {
	s := initForTest(t)
	Log(testLogDesc)

	s.mu.Lock()
	n := len(s.loggedEvents)
	var got string
	if n > 0 {
		got = s.loggedEvents[0].Msg.String()
	}
	s.mu.Unlock()

	if n != 1 {
		t.Fatalf("expected 1 mirrored log event, got %d", n)
	}
	if got != "fixed message" {
		t.Fatalf("expected mirrored message %q, got %q", "fixed message", got)
	}
}

func TestLogfEmitsInteropEventAndMirrors(t *testing.T) {
	s := initForTest(t)
	Logf("dispatch_test", events.LevelWarn, "value was %d", 42)

	s.mu.Lock()
	n := len(s.loggedEvents)
	var got string
	if n > 0 {
		got = s.loggedEvents[0].Msg.String()
	}
	s.mu.Unlock()

	if n != 1 {
		t.Fatalf("expected 1 mirrored log event, got %d", n)
	}
	if got != "value was 42" {
		t.Fatalf("expected formatted message, got %q", got)
	}
}

func TestLogEnabledRespectsSinkFilter(t *testing.T) {
	s := &recordingSink{minLevel: events.LevelWarn}
	if err := Init(testSettings(), s, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Shutdown()

	if !LogEnabled("x", events.LevelWarn) {
		t.Error("expected warn to be enabled")
	}
	if LogEnabled("x", events.LevelDebug) {
		t.Error("expected debug to be disabled")
	}
}

var testMetricDesc = events.NewMetricMetadata(events.VerbosityDefault, "requests", "count", "dispatch_test", "dispatch_test.go", 0)
var testHighVerbosityMetricDesc = events.NewMetricMetadata(events.VerbosityMax, "hot_path", "count", "dispatch_test", "dispatch_test.go", 0)

func TestMetricVerbosityFiltering(t *testing.T) {
	s := initForTest(t)
	IntMetric(testMetricDesc, 7)
	IntMetric(testHighVerbosityMetricDesc, 99) // Lod 9 > default MaxMetricVerbosity 5, dropped.
	FloatMetric(testMetricDesc, 1.25)

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	_, metricBlocks, _ := s.counts()
	if metricBlocks == 0 {
		t.Fatal("expected at least one shipped metric block")
	}
}

var testSpanDesc = events.NewSpanMetadata("work", "dispatch_test", "dispatch_test.go", 0)

func TestSpanStreamBeginEnd(t *testing.T) {
	s := initForTest(t)

	stream, err := AcquireSpanStream("worker-1")
	if err != nil {
		t.Fatalf("AcquireSpanStream: %v", err)
	}
	stream.Begin(testSpanDesc)
	stream.End(testSpanDesc)

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	_, _, spanBlocks := s.counts()
	if spanBlocks == 0 {
		t.Fatal("expected at least one shipped thread-span block")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.streamInits) != 3 {
		t.Fatalf("expected 3 stream-init envelopes (log, metric, thread), got %d", len(s.streamInits))
	}
}

func TestAcquireSpanStreamBeforeInitErrors(t *testing.T) {
	if _, err := AcquireSpanStream("x"); err == nil {
		t.Fatal("expected error acquiring a span stream before Init")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	_ = initForTest(t)
	if err := Shutdown(); err != nil {
		t.Fatalf("first Shutdown: %v", err)
	}
	if err := Shutdown(); err != nil {
		t.Fatalf("second Shutdown should be a no-op, got %v", err)
	}
}

// TestShutdownShipsEmptyStreamsWithZeroEvents covers the scenario
// where Shutdown runs immediately after Init with nothing ever
// emitted: the sink must still observe one log and one metric block,
// each recording zero events, rather than Shutdown skipping the ship
// call for an idle stream.
func TestShutdownShipsEmptyStreamsWithZeroEvents(t *testing.T) {
	s := initForTest(t)

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	logBlocks, metricBlocks, _ := s.counts()
	if logBlocks != 1 {
		t.Fatalf("expected exactly 1 shipped log block, got %d", logBlocks)
	}
	if metricBlocks != 1 {
		t.Fatalf("expected exactly 1 shipped metric block, got %d", metricBlocks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logBlocks[0].NbEvents() != 0 {
		t.Fatalf("expected the shipped log block to record 0 events, got %d", s.logBlocks[0].NbEvents())
	}
	if s.metricBlocks[0].NbEvents() != 0 {
		t.Fatalf("expected the shipped metric block to record 0 events, got %d", s.metricBlocks[0].NbEvents())
	}
}

func TestRotationOnFillShipsIntermediateBlocks(t *testing.T) {
	settings := testSettings()
	settings.Streams.LogCapacityBytes = 200
	settings.Streams.LogPaddingBytes = 32

	s := &recordingSink{}
	if err := Init(settings, s, nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Shutdown()

	for i := 0; i < 50; i++ {
		Log(testLogDesc)
	}

	logBlocks, _, _ := s.counts()
	if logBlocks == 0 {
		t.Fatal("expected at least one block to rotate out before shutdown given small capacity")
	}
}

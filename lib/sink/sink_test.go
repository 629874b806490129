// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/clock"
	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/hostclock"
	"github.com/lumenary/telemetry/lib/wire"
)

type fakeTransport struct {
	mu       sync.Mutex
	jsonPuts int
	binPuts  [][]byte
	failNext int
}

func (f *fakeTransport) PutJSON(ctx context.Context, url string, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jsonPuts++
	return nil
}

func (f *fakeTransport) PutBinary(ctx context.Context, url string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return errTransportFailure
	}
	f.binPuts = append(f.binPuts, body)
	return nil
}

type staticError string

func (e staticError) Error() string { return string(e) }

const errTransportFailure = staticError("simulated transport failure")

type fakeAllocator struct{ n int }

func (a *fakeAllocator) New() string {
	a.n++
	return "block-" + string(rune('0'+a.n))
}

func TestHTTPSinkShipsStartupAndBlock(t *testing.T) {
	transport := &fakeTransport{}
	s := NewHTTPSink("http://ingest.local", transport, &fakeAllocator{}, nil, nil, events.LevelTrace)

	if err := s.OnStartup(envelope.ProcessEnvelope{ProcessID: "p1"}); err != nil {
		t.Fatalf("OnStartup: %v", err)
	}

	src := hostclock.Fake(time.Unix(0, 0))
	meta := events.NewLogMetadata("net", "hello", "a.cc", 7, events.LevelInfo)
	b := block.NewBlock("log-1", 4096, events.LogObjectSerializers, block.Now(src))
	b.Queue.Push(events.LogStaticStrEvent{Desc: meta, Ts: 1000})
	b.Close(block.Now(src))

	if err := s.OnProcessLogBlock(b); err != nil {
		t.Fatalf("OnProcessLogBlock: %v", err)
	}

	if err := s.OnShutdown(); err != nil {
		t.Fatalf("OnShutdown: %v", err)
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if transport.jsonPuts != 1 {
		t.Fatalf("expected 1 JSON PUT, got %d", transport.jsonPuts)
	}
	if len(transport.binPuts) != 1 {
		t.Fatalf("expected 1 binary PUT, got %d", len(transport.binPuts))
	}
}

func TestHTTPSinkIsBusyWhileTasksPending(t *testing.T) {
	transport := &fakeTransport{}
	s := NewHTTPSink("http://ingest.local", transport, &fakeAllocator{}, nil, nil, events.LevelTrace)
	defer s.OnShutdown()

	if s.IsBusy() {
		t.Fatal("expected fresh sink not to report busy")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	s.enqueue(func(ctx context.Context) {
		defer wg.Done()
	})
	wg.Wait()

	// Give the worker goroutine a moment to decrement queueSize after
	// the task function returns.
	deadline := time.Now().Add(time.Second)
	for s.IsBusy() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.IsBusy() {
		t.Fatal("expected queue to drain back to not-busy")
	}
}

func TestRetryingTransportRetriesOnFailure(t *testing.T) {
	transport := &fakeTransport{failNext: 1}
	clk := clock.Fake(time.Unix(0, 0))
	retrying := WithRetryBuffer(transport, 1<<20, clk, nil)
	defer retrying.Close()

	if err := retrying.PutBinary(context.Background(), "http://x/block", []byte("payload")); err != nil {
		t.Fatalf("PutBinary: %v", err)
	}

	clk.Advance(retryInitialBackoff)

	deadline := time.Now().Add(time.Second)
	for {
		transport.mu.Lock()
		count := len(transport.binPuts)
		transport.mu.Unlock()
		if count == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected retry to eventually succeed")
		}
		time.Sleep(time.Millisecond)
	}
}

type failingRegistry struct{}

func (failingRegistry) Resolve(id uint64) ([]byte, error) {
	return nil, errTransportFailure
}

// TestHTTPSinkShipsBlockWhenDependencyExtractionFails exercises the
// path where extractDeps returns an error — e.g. a host-interned
// string the registry can't resolve — to confirm shipBlock still
// formats and ships the block with an empty dependency queue instead
// of propagating a nil *transit.Queue into FormatBlock.
func TestHTTPSinkShipsBlockWhenDependencyExtractionFails(t *testing.T) {
	transport := &fakeTransport{}
	s := NewHTTPSink("http://ingest.local", transport, &fakeAllocator{}, failingRegistry{}, nil, events.LevelTrace)
	defer s.OnShutdown()

	src := hostclock.Fake(time.Unix(0, 0))
	b := block.NewBlock("log-1", 4096, events.LogObjectSerializers, block.Now(src))
	event := events.LogStringInteropEvent{
		Ts:     1000,
		Level:  events.LevelInfo,
		Target: wire.HostInterned(1, 3),
	}
	b.Queue.Push(event)
	b.Close(block.Now(src))

	if err := s.OnProcessLogBlock(b); err != nil {
		t.Fatalf("OnProcessLogBlock: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		transport.mu.Lock()
		count := len(transport.binPuts)
		transport.mu.Unlock()
		if count == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected block to ship despite dependency extraction failure")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNullSinkDiscardsEverything(t *testing.T) {
	var s NullSink
	if s.IsBusy() {
		t.Fatal("expected NullSink never to report busy")
	}
	if err := s.OnStartup(envelope.ProcessEnvelope{}); err != nil {
		t.Fatalf("OnStartup: %v", err)
	}
}

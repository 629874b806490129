// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Telemetry-ingest-mock is a drop-in replacement for a real ingestion
// endpoint in integration tests. It accepts the same PUT requests
// HTTPSink sends (process, stream, block), stores everything in
// memory, and exposes a status endpoint so tests can assert on what
// arrived.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/spf13/pflag"

	"github.com/lumenary/telemetry/lib/envelope"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var addr string
	pflag.StringVar(&addr, "addr", "127.0.0.1:8089", "address to listen on")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	m := newMock(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /process", m.handleProcess)
	mux.HandleFunc("PUT /stream", m.handleStream)
	mux.HandleFunc("PUT /block", m.handleBlock)
	mux.HandleFunc("GET /status", m.handleStatus)

	logger.Info("telemetry-ingest-mock listening", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// mock stores everything it receives in memory for test assertions.
// Blocks arrive at one shared endpoint; kind is recovered from the
// tag the stream's own init envelope declared, keyed by stream_id —
// the same lookup a real decoder would do, since the wire protocol
// carries no kind outside the envelope itself.
type mock struct {
	logger *slog.Logger

	mu           sync.Mutex
	processes    []envelope.ProcessEnvelope
	streams      []envelope.StreamInitEnvelope
	streamKind   map[string]string
	logBlocks    []envelope.ParsedBlock
	metricBlocks []envelope.ParsedBlock
	threadBlocks []envelope.ParsedBlock
	otherBlocks  []envelope.ParsedBlock
}

func newMock(logger *slog.Logger) *mock {
	return &mock{logger: logger, streamKind: make(map[string]string)}
}

func (m *mock) handleProcess(w http.ResponseWriter, r *http.Request) {
	var p envelope.ProcessEnvelope
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	m.processes = append(m.processes, p)
	m.mu.Unlock()
	m.logger.Info("process envelope received", "process_id", p.ProcessID, "exe", p.Exe)
	w.WriteHeader(http.StatusNoContent)
}

func (m *mock) handleStream(w http.ResponseWriter, r *http.Request) {
	var s envelope.StreamInitEnvelope
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	m.streams = append(m.streams, s)
	if len(s.Tags) > 0 {
		m.streamKind[s.StreamID] = s.Tags[0]
	}
	m.mu.Unlock()
	m.logger.Info("stream-init envelope received", "stream_id", s.StreamID, "process_id", s.ProcessID)
	w.WriteHeader(http.StatusNoContent)
}

func (m *mock) handleBlock(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	parsed, err := envelope.ParseBlock(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	kind := m.streamKind[parsed.Header.StreamID]
	switch kind {
	case "log":
		m.logBlocks = append(m.logBlocks, parsed)
	case "metric":
		m.metricBlocks = append(m.metricBlocks, parsed)
	case "thread":
		m.threadBlocks = append(m.threadBlocks, parsed)
	default:
		m.otherBlocks = append(m.otherBlocks, parsed)
	}
	m.mu.Unlock()

	m.logger.Info("block received", "kind", kind, "stream_id", parsed.Header.StreamID, "block_id", parsed.Header.BlockID, "nb_objects", parsed.Header.NbObjects)
	w.WriteHeader(http.StatusNoContent)
}

// statusResponse reports stored counts for test assertions.
type statusResponse struct {
	Processes    int `json:"processes"`
	Streams      int `json:"streams"`
	LogBlocks    int `json:"log_blocks"`
	MetricBlocks int `json:"metric_blocks"`
	ThreadBlocks int `json:"thread_blocks"`
	OtherBlocks  int `json:"other_blocks"`
}

func (m *mock) handleStatus(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	resp := statusResponse{
		Processes:    len(m.processes),
		Streams:      len(m.streams),
		LogBlocks:    len(m.logBlocks),
		MetricBlocks: len(m.metricBlocks),
		ThreadBlocks: len(m.threadBlocks),
		OtherBlocks:  len(m.otherBlocks),
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

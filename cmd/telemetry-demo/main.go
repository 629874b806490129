// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Telemetry-demo is a small example host program: it initializes the
// telemetry package against a real HTTP sink, emits a handful of
// logs, metrics, and a span, then shuts down cleanly. Point it at a
// running telemetry-ingest-mock to see the envelopes land.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/lumenary/telemetry"
	"github.com/lumenary/telemetry/lib/clock"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/guid"
	"github.com/lumenary/telemetry/lib/sink"
	"github.com/lumenary/telemetry/lib/telemetryconfig"
)

var (
	startupDesc  = events.NewLogMetadata("demo", "telemetry-demo starting up", "main.go", 0, events.LevelInfo)
	workDoneDesc = events.NewLogMetadata("demo", "work item finished", "main.go", 0, events.LevelDebug)
	itemsMetric  = events.NewMetricMetadata(events.VerbosityDefault, "items_processed", "count", "demo", "main.go", 0)
	workSpan     = events.NewSpanMetadata("process_item", "demo", "main.go", 0)
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config if given, otherwise LGN_TELEMETRY_CONFIG if
// set, otherwise falls back to built-in defaults — a demo program has
// no business requiring a config file just to run.
func loadConfig(explicitPath string) (*telemetryconfig.Config, error) {
	if explicitPath != "" {
		cfg, err := telemetryconfig.LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("telemetry-demo: %w", err)
		}
		return cfg, nil
	}
	if cfg, err := telemetryconfig.LoadEnv(); err == nil {
		return cfg, nil
	}
	return telemetryconfig.Default(), nil
}

func run() error {
	var ingestURL, configPath string
	pflag.StringVar(&ingestURL, "ingest-url", "http://127.0.0.1:8089", "base URL of the ingestion endpoint")
	pflag.StringVar(&configPath, "config", "", "path to a telemetry config YAML file (overrides LGN_TELEMETRY_CONFIG); falls back to built-in defaults if neither is set")
	pflag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if ingestURL != "" {
		cfg.IngestBaseURL = ingestURL
	}
	settings, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("telemetry-demo: resolve config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	var transport sink.Transport = sink.NewHTTPTransport(&http.Client{Timeout: settings.HTTPTimeout})
	if settings.RetryBufferBytes > 0 {
		retrying := sink.WithRetryBuffer(transport, settings.RetryBufferBytes, clock.Real(), logger)
		defer retrying.Close()
		transport = retrying
	}
	s := sink.NewHTTPSink(settings.IngestBaseURL, transport, guid.Real(), nil, logger, settings.MinLogLevel)

	if err := telemetry.Init(settings, s, logger); err != nil {
		return fmt.Errorf("telemetry-demo: init: %w", err)
	}
	defer telemetry.Shutdown()

	telemetry.Log(startupDesc)

	stream, err := telemetry.AcquireSpanStream("main")
	if err != nil {
		return fmt.Errorf("telemetry-demo: acquire span stream: %w", err)
	}

	for i := 0; i < 5; i++ {
		stream.Begin(workSpan)
		time.Sleep(10 * time.Millisecond)
		telemetry.IntMetric(itemsMetric, uint64(i+1))
		telemetry.Logf("demo", events.LevelDebug, "processed item %d", i)
		stream.End(workSpan)
		telemetry.Log(workDoneDesc)
	}

	return nil
}

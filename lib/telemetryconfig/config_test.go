// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetryconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lumenary/telemetry/lib/events"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MinLogLevel != "info" {
		t.Errorf("expected min_log_level=info, got %s", cfg.MinLogLevel)
	}
	if cfg.FlushDelay != "60s" {
		t.Errorf("expected flush_delay=60s, got %s", cfg.FlushDelay)
	}
	if cfg.Streams.LogCapacityBytes <= cfg.Streams.LogPaddingBytes {
		t.Error("default log capacity must exceed default log padding")
	}
}

func TestLoadEnvRequiresConfigVar(t *testing.T) {
	orig := os.Getenv(configEnvVar)
	defer os.Setenv(configEnvVar, orig)
	os.Unsetenv(configEnvVar)

	if _, err := LoadEnv(); err == nil {
		t.Fatal("expected error when LGN_TELEMETRY_CONFIG not set, got nil")
	}
}

func TestLoadFileMergesOverDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.yaml")
	contents := `
ingest_base_url: "https://ingest.example.com"
min_log_level: "debug"
streams:
  thread_capacity_bytes: 65536
  thread_padding_bytes: 64
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IngestBaseURL != "https://ingest.example.com" {
		t.Errorf("expected overridden ingest_base_url, got %s", cfg.IngestBaseURL)
	}
	if cfg.MinLogLevel != "debug" {
		t.Errorf("expected overridden min_log_level, got %s", cfg.MinLogLevel)
	}
	// Untouched fields keep their default.
	if cfg.HTTPTimeout != "10s" {
		t.Errorf("expected default http_timeout to survive merge, got %s", cfg.HTTPTimeout)
	}
	if cfg.Streams.ThreadCapacityBytes != 65536 {
		t.Errorf("expected overridden thread_capacity_bytes, got %d", cfg.Streams.ThreadCapacityBytes)
	}
}

func TestResolveSucceedsWithValidConfig(t *testing.T) {
	cfg := Default()
	cfg.IngestBaseURL = "https://ingest.example.com"

	settings, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if settings.FlushDelay != 60*time.Second {
		t.Errorf("expected 60s flush delay, got %s", settings.FlushDelay)
	}
	if settings.MinLogLevel != events.LevelInfo {
		t.Errorf("expected LevelInfo, got %v", settings.MinLogLevel)
	}
}

func TestResolveRejectsMissingIngestURL(t *testing.T) {
	cfg := Default()
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for missing ingest_base_url")
	}
}

func TestResolveRejectsCheckIntervalNotSmallerThanDelay(t *testing.T) {
	cfg := Default()
	cfg.IngestBaseURL = "https://ingest.example.com"
	cfg.FlushCheckInterval = "60s"
	cfg.FlushDelay = "60s"

	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error when flush_check_interval is not smaller than flush_delay")
	}
}

func TestResolveRejectsUnrecognizedLevel(t *testing.T) {
	cfg := Default()
	cfg.IngestBaseURL = "https://ingest.example.com"
	cfg.MinLogLevel = "verbose"

	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for unrecognized min_log_level")
	}
}

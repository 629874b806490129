// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetryconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumenary/telemetry/lib/events"
)

// configEnvVar names the environment variable LoadEnv reads for the
// config file path.
const configEnvVar = "LGN_TELEMETRY_CONFIG"

// Config is the on-disk shape of a telemetry host's configuration.
// Durations are strings (e.g. "60s") rather than time.Duration so the
// YAML file stays human-writable; call Resolve to get a validated,
// parsed Settings.
type Config struct {
	// IngestBaseURL is the base URL the HTTP sink PUTs process,
	// stream-init, and block envelopes to.
	IngestBaseURL string `yaml:"ingest_base_url"`

	// HTTPTimeout bounds each outbound PUT. Default: "10s".
	HTTPTimeout string `yaml:"http_timeout"`

	// MinLogLevel is the lowest-severity level LogEnabled reports as
	// enabled (error, warn, info, debug, trace). Default: "info".
	MinLogLevel string `yaml:"min_log_level"`

	// FlushDelay is how long an idle stream may hold unshipped events
	// before the flush monitor force-rotates it. Default: "60s".
	FlushDelay string `yaml:"flush_delay"`

	// FlushCheckInterval is how often the flush monitor wakes up to
	// evaluate FlushDelay. Default: "1s".
	FlushCheckInterval string `yaml:"flush_check_interval"`

	// RetryBufferBytes bounds the durable-delivery retry buffer. Zero
	// disables retry buffering entirely (best-effort only).
	RetryBufferBytes int `yaml:"retry_buffer_bytes"`

	// MaxMetricVerbosity is the highest MetricMetadata.Lod the
	// Dispatch will emit; metrics declared at a higher level-of-detail
	// are dropped at the call site with no allocation. Range 0-9;
	// default 5 (events.VerbosityDefault).
	MaxMetricVerbosity int `yaml:"max_metric_verbosity"`

	// Streams configures per-stream-kind buffer sizing.
	Streams StreamsConfig `yaml:"streams"`
}

// StreamsConfig holds the capacity and padding for each stream kind —
// padding is the reservation that guarantees a maximum-size record
// always fits once IsFull first reports true.
type StreamsConfig struct {
	LogCapacityBytes    int `yaml:"log_capacity_bytes"`
	LogPaddingBytes     int `yaml:"log_padding_bytes"`
	MetricCapacityBytes int `yaml:"metric_capacity_bytes"`
	MetricPaddingBytes  int `yaml:"metric_padding_bytes"`
	ThreadCapacityBytes int `yaml:"thread_capacity_bytes"`
	ThreadPaddingBytes  int `yaml:"thread_padding_bytes"`
}

// Default returns a Config with the nominal defaults, before any
// file is merged in.
func Default() *Config {
	return &Config{
		HTTPTimeout:        "10s",
		MinLogLevel:        "info",
		FlushDelay:         "60s",
		FlushCheckInterval: "1s",
		RetryBufferBytes:   0,
		MaxMetricVerbosity: int(events.VerbosityDefault),
		Streams: StreamsConfig{
			LogCapacityBytes:    1 << 20,
			LogPaddingBytes:     128,
			MetricCapacityBytes: 1 << 18,
			MetricPaddingBytes:  32,
			ThreadCapacityBytes: 1 << 18,
			ThreadPaddingBytes:  32,
		},
	}
}

// LoadEnv loads configuration from the LGN_TELEMETRY_CONFIG
// environment variable. There are no fallbacks: if it is unset, this
// fails rather than guessing a path.
func LoadEnv() (*Config, error) {
	path := os.Getenv(configEnvVar)
	if path == "" {
		return nil, fmt.Errorf("telemetryconfig: %s environment variable not set; point it at a telemetry config YAML file", configEnvVar)
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("telemetryconfig: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("telemetryconfig: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Settings is the parsed, validated form of Config — durations and
// levels resolved to their runtime types. Build one with Resolve
// before wiring a Dispatch.
type Settings struct {
	IngestBaseURL      string
	HTTPTimeout        time.Duration
	MinLogLevel        events.Level
	FlushDelay         time.Duration
	FlushCheckInterval time.Duration
	RetryBufferBytes   int
	MaxMetricVerbosity events.Verbosity
	Streams            StreamsConfig
}

// Resolve validates c and parses its duration and level strings,
// returning a Settings ready to hand to the telemetry package's Init.
func (c *Config) Resolve() (Settings, error) {
	if c.IngestBaseURL == "" {
		return Settings{}, fmt.Errorf("telemetryconfig: ingest_base_url is required")
	}

	httpTimeout, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return Settings{}, fmt.Errorf("telemetryconfig: http_timeout: %w", err)
	}
	flushDelay, err := time.ParseDuration(c.FlushDelay)
	if err != nil {
		return Settings{}, fmt.Errorf("telemetryconfig: flush_delay: %w", err)
	}
	flushCheck, err := time.ParseDuration(c.FlushCheckInterval)
	if err != nil {
		return Settings{}, fmt.Errorf("telemetryconfig: flush_check_interval: %w", err)
	}
	if flushCheck >= flushDelay {
		return Settings{}, fmt.Errorf("telemetryconfig: flush_check_interval (%s) must be smaller than flush_delay (%s)", flushCheck, flushDelay)
	}

	level, err := parseLevel(c.MinLogLevel)
	if err != nil {
		return Settings{}, err
	}

	if err := c.Streams.validate(); err != nil {
		return Settings{}, err
	}
	if c.MaxMetricVerbosity < int(events.VerbosityMin) || c.MaxMetricVerbosity > int(events.VerbosityMax) {
		return Settings{}, fmt.Errorf("telemetryconfig: max_metric_verbosity must be between %d and %d", events.VerbosityMin, events.VerbosityMax)
	}

	return Settings{
		IngestBaseURL:      c.IngestBaseURL,
		HTTPTimeout:        httpTimeout,
		MinLogLevel:        level,
		FlushDelay:         flushDelay,
		FlushCheckInterval: flushCheck,
		RetryBufferBytes:   c.RetryBufferBytes,
		MaxMetricVerbosity: events.Verbosity(c.MaxMetricVerbosity),
		Streams:            c.Streams,
	}, nil
}

func (s StreamsConfig) validate() error {
	if s.LogCapacityBytes <= s.LogPaddingBytes {
		return fmt.Errorf("telemetryconfig: streams.log_capacity_bytes must exceed streams.log_padding_bytes")
	}
	if s.MetricCapacityBytes <= s.MetricPaddingBytes {
		return fmt.Errorf("telemetryconfig: streams.metric_capacity_bytes must exceed streams.metric_padding_bytes")
	}
	if s.ThreadCapacityBytes <= s.ThreadPaddingBytes {
		return fmt.Errorf("telemetryconfig: streams.thread_capacity_bytes must exceed streams.thread_padding_bytes")
	}
	return nil
}

func parseLevel(s string) (events.Level, error) {
	switch s {
	case "error":
		return events.LevelError, nil
	case "warn":
		return events.LevelWarn, nil
	case "info":
		return events.LevelInfo, nil
	case "debug":
		return events.LevelDebug, nil
	case "trace":
		return events.LevelTrace, nil
	default:
		return 0, fmt.Errorf("telemetryconfig: min_log_level: unrecognized level %q", s)
	}
}

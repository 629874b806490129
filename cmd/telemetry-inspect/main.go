// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Telemetry-inspect decodes a single block envelope file from disk —
// the same binary payload HTTPSink PUTs to the shared block endpoint —
// and prints its header and decoded records. Object records are
// tagged with a stream-kind-local index, so the caller must say which
// kind of stream the file came from (normally learned from the
// stream-init envelope the real ingestion endpoint received first).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/transit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func objectSerializersFor(kind string) ([]transit.Serializer, error) {
	switch kind {
	case "log":
		return events.LogObjectSerializers, nil
	case "metric":
		return events.MetricObjectSerializers, nil
	case "thread":
		return events.SpanObjectSerializers, nil
	default:
		return nil, fmt.Errorf("telemetry-inspect: --kind must be one of log, metric, thread (got %q)", kind)
	}
}

func run() error {
	var path, kind string
	pflag.StringVar(&path, "file", "", "path to a block envelope payload")
	pflag.StringVar(&kind, "kind", "", "stream kind the block belongs to: log, metric, or thread")
	pflag.Parse()
	if path == "" {
		return fmt.Errorf("telemetry-inspect: --file is required")
	}
	objectSerializers, err := objectSerializersFor(kind)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("telemetry-inspect: read %s: %w", path, err)
	}

	parsed, err := envelope.ParseBlock(payload)
	if err != nil {
		return fmt.Errorf("telemetry-inspect: parse block: %w", err)
	}

	h := parsed.Header
	fmt.Printf("block_id=%s stream_id=%s begin=%s end=%s nb_objects=%d\n",
		h.BlockID, h.StreamID, h.BeginTime.Format("15:04:05.000"), h.EndTime.Format("15:04:05.000"), h.NbObjects)

	depQueue, err := transit.FromBytes(parsed.DependencyBytes, events.DependencyQueueSerializers...)
	if err != nil {
		return fmt.Errorf("telemetry-inspect: decode dependency queue: %w", err)
	}
	fmt.Printf("dependencies (%d):\n", depQueue.NbEvents())
	if err := depQueue.ForEach(func(tag uint8, value any) error {
		fmt.Printf("  [%d] %#v\n", tag, value)
		return nil
	}); err != nil {
		return fmt.Errorf("telemetry-inspect: walk dependency queue: %w", err)
	}

	objQueue, err := transit.FromBytes(parsed.ObjectBytes, objectSerializers...)
	if err != nil {
		return fmt.Errorf("telemetry-inspect: decode object queue: %w", err)
	}
	fmt.Printf("objects (%d):\n", objQueue.NbEvents())
	return objQueue.ForEach(func(tag uint8, value any) error {
		fmt.Printf("  [%d] %#v\n", tag, value)
		return nil
	})
}

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"fmt"

	"github.com/lumenary/telemetry/lib/block"
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

// LogDependencies walks a sealed log block and returns its
// dependency queue. It handles both LogStaticStrEvent (whose
// dependency chain runs through the referenced LogMetadata) and
// LogStringInteropEvent (whose only referenced string is target).
func LogDependencies(b *block.Block, registry wire.InternRegistry) (*transit.Queue, error) {
	seen := seenSet{}
	q := newDependencyQueue(b)

	err := b.Queue.ForEach(func(tag uint8, value any) error {
		switch e := value.(type) {
		case events.LogStaticStrEvent:
			return emitLogMetadata(q, seen, e, registry)
		case events.LogStringInteropEvent:
			return emitString(q, seen, e.Target, registry)
		default:
			return fmt.Errorf("extract: unexpected event type %T in log block", value)
		}
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func emitLogMetadata(q *transit.Queue, seen seenSet, e events.LogStaticStrEvent, registry wire.InternRegistry) error {
	m := e.Desc
	if m == nil {
		return fmt.Errorf("extract: descriptor id %d has no live metadata in this process", e.DescID)
	}
	if !seen.markIfNew(m.ID()) {
		return nil
	}
	for _, ref := range []wire.StringRef{m.Target, m.Msg, m.File} {
		if err := emitString(q, seen, ref, registry); err != nil {
			return err
		}
	}
	q.Push(events.NewLogMetadataDependency(m))
	return nil
}

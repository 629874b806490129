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

// SpanDependencies walks a sealed thread-span block and returns its
// dependency queue.
func SpanDependencies(b *block.Block, registry wire.InternRegistry) (*transit.Queue, error) {
	seen := seenSet{}
	q := newDependencyQueue(b)

	err := b.Queue.ForEach(func(tag uint8, value any) error {
		switch e := value.(type) {
		case events.BeginThreadSpanEvent:
			return emitSpanMetadata(q, seen, e.Desc, e.DescID, registry)
		case events.EndThreadSpanEvent:
			return emitSpanMetadata(q, seen, e.Desc, e.DescID, registry)
		default:
			return fmt.Errorf("extract: unexpected event type %T in span block", value)
		}
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func emitSpanMetadata(q *transit.Queue, seen seenSet, m *events.SpanMetadata, descID uint64, registry wire.InternRegistry) error {
	if m == nil {
		return fmt.Errorf("extract: descriptor id %d has no live metadata in this process", descID)
	}
	if !seen.markIfNew(m.ID()) {
		return nil
	}
	for _, ref := range []wire.StringRef{m.Name, m.Target, m.File} {
		if err := emitString(q, seen, ref, registry); err != nil {
			return err
		}
	}
	q.Push(events.NewSpanMetadataDependency(m))
	return nil
}

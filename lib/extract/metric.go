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

// MetricDependencies walks a sealed metric block and returns its
// dependency queue.
func MetricDependencies(b *block.Block, registry wire.InternRegistry) (*transit.Queue, error) {
	seen := seenSet{}
	q := newDependencyQueue(b)

	err := b.Queue.ForEach(func(tag uint8, value any) error {
		switch e := value.(type) {
		case events.IntegerMetricEvent:
			return emitMetricMetadata(q, seen, e.Desc, e.DescID, registry)
		case events.FloatMetricEvent:
			return emitMetricMetadata(q, seen, e.Desc, e.DescID, registry)
		default:
			return fmt.Errorf("extract: unexpected event type %T in metric block", value)
		}
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func emitMetricMetadata(q *transit.Queue, seen seenSet, m *events.MetricMetadata, descID uint64, registry wire.InternRegistry) error {
	if m == nil {
		return fmt.Errorf("extract: descriptor id %d has no live metadata in this process", descID)
	}
	if !seen.markIfNew(m.ID()) {
		return nil
	}
	for _, ref := range []wire.StringRef{m.Name, m.Unit, m.Target, m.File} {
		if err := emitString(q, seen, ref, registry); err != nil {
			return err
		}
	}
	q.Push(events.NewMetricMetadataDependency(m))
	return nil
}

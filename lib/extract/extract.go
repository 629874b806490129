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

// seenSet tracks identities (string or metadata pointer) already
// emitted into a dependency queue, so the same identity never appears
// twice in one block's extraction.
type seenSet map[uint64]struct{}

func (s seenSet) markIfNew(id uint64) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func newDependencyQueue(b *block.Block) *transit.Queue {
	hint := b.Queue.SizeBytes()/2 + 64
	return transit.New(hint, events.DependencyQueueSerializers...)
}

// emitString resolves ref through registry and pushes a
// StaticStringDependency if ref's identity has not already been
// emitted in this extraction. A zero StringRef (an unset optional
// field) is silently skipped.
func emitString(q *transit.Queue, seen seenSet, ref wire.StringRef, registry wire.InternRegistry) error {
	if ref.IsZero() {
		return nil
	}
	if !seen.markIfNew(ref.ID) {
		return nil
	}
	resolved, err := ref.Resolve(registry)
	if err != nil {
		return fmt.Errorf("extract: resolving string %d: %w", ref.ID, err)
	}
	q.Push(events.NewStaticStringDependency(ref, resolved))
	return nil
}

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"fmt"

	"github.com/lumenary/telemetry/lib/transit"
)

// Block is a sealed, immutable unit of one stream's events. It starts
// open (Sealed reports false) and transitions to sealed exactly once,
// when Close is called at rotation time.
type Block struct {
	StreamID string
	Begin    DualTime
	End      DualTime
	Queue    *transit.Queue
	Capacity int

	sealed bool
}

// NewBlock opens a fresh block for streamID with the given capacity
// hint and serializer type-list.
func NewBlock(streamID string, capacityHint int, serializers []transit.Serializer, begin DualTime) *Block {
	return &Block{
		StreamID: streamID,
		Begin:    begin,
		Queue:    transit.New(capacityHint, serializers...),
		Capacity: capacityHint,
	}
}

// Close seals the block at end. It panics if the block was already
// sealed — rotation is the only caller and must never seal twice.
func (b *Block) Close(end DualTime) {
	if b.sealed {
		panic(fmt.Sprintf("block: Close called twice on stream %q", b.StreamID))
	}
	b.End = end
	b.sealed = true
}

// Sealed reports whether Close has been called.
func (b *Block) Sealed() bool { return b.sealed }

// NbEvents returns the number of records pushed into the block's
// queue so far.
func (b *Block) NbEvents() int { return b.Queue.NbEvents() }

// SizeBytes returns the block's current packed queue size.
func (b *Block) SizeBytes() int { return b.Queue.SizeBytes() }

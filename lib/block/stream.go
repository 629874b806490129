// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"context"
	"sync/atomic"

	"github.com/lumenary/telemetry/lib/transit"
)

// Stream is a long-lived source of homogeneous events. At any moment
// it has exactly one current block; SwapBlocks atomically exchanges
// it.
type Stream struct {
	ProcessID   string
	StreamID    string
	Tags        []string
	Properties  map[string]string
	Serializers []transit.Serializer

	capacityHint int
	paddingBytes int

	mu         ReentrantMutex
	current    *Block
	forcedFull atomic.Bool
}

// NewStream opens a stream with a fresh current block. paddingBytes
// is a per-stream-kind reservation (typically larger for log streams
// than metric or thread streams, since a formatted log message is the
// largest single record a stream holds) that guarantees a
// maximum-size record always fits after IsFull first reports true.
func NewStream(processID, streamID string, tags []string, properties map[string]string, serializers []transit.Serializer, capacityHint, paddingBytes int, begin DualTime) *Stream {
	return &Stream{
		ProcessID:    processID,
		StreamID:     streamID,
		Tags:         tags,
		Properties:   properties,
		Serializers:  serializers,
		capacityHint: capacityHint,
		paddingBytes: paddingBytes,
		current:      NewBlock(streamID, capacityHint, serializers, begin),
	}
}

// Lock acquires the stream's re-entrant mutex, honoring ctx's
// existing marker if the caller is already holding it.
func (s *Stream) Lock(ctx context.Context) (context.Context, func()) {
	return s.mu.Lock(ctx)
}

// Current returns the stream's current block. Callers must hold the
// stream's lock.
func (s *Stream) Current() *Block { return s.current }

// IsFull reports whether the current block has reached its full
// threshold (capacity - padding), or was forced full by MarkFull.
// Callers must hold the stream's lock.
func (s *Stream) IsFull() bool {
	if s.forcedFull.Load() {
		return true
	}
	return s.current.SizeBytes() >= s.capacityHint-s.paddingBytes
}

// MarkFull forces the next IsFull check to report true regardless of
// the current block's size. Unlike the rest of Stream's methods, this
// one is safe to call without holding the stream's lock: it's the
// mechanism a flush monitor running on its own goroutine uses to flag
// a thread's span stream for rotation without touching the buffer
// that thread is actively writing to. The flagged thread clears it the
// next time it rotates via SwapBlocks.
func (s *Stream) MarkFull() { s.forcedFull.Store(true) }

// SwapBlocks installs next as the current block and returns the
// block it replaced. It does not seal the old block; the caller seals
// it with Close before handing it to a sink. Callers must hold the
// stream's lock.
func (s *Stream) SwapBlocks(next *Block) *Block {
	old := s.current
	s.current = next
	s.forcedFull.Store(false)
	return old
}

// NewSuccessorBlock builds a fresh block of this stream's configured
// capacity, ready to pass to SwapBlocks.
func (s *Stream) NewSuccessorBlock(begin DualTime) *Block {
	return NewBlock(s.StreamID, s.capacityHint, s.Serializers, begin)
}

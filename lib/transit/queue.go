// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package transit

import (
	"fmt"
	"reflect"

	"github.com/lumenary/telemetry/lib/wire"
)

// Queue is the heterogeneous append-only event queue: a fixed,
// ordered type-list of record shapes packed into one contiguous byte
// buffer, each record prefixed by a one-byte tag that is its index
// into that type-list.
//
// A Queue is not safe for concurrent use; callers that need
// concurrent writers serialize through a mutex (lib/block does this
// at the stream level).
type Queue struct {
	serializers []Serializer
	typeIndex   map[reflect.Type]uint8
	data        []byte
	nbEvents    int
}

// New creates an empty Queue whose type-list is exactly the given
// serializers, in order. The order is the wire tag assignment and
// must match on every reader of blocks this Queue produces; passing
// more than 256 serializers is a programmer error since the tag is a
// single byte.
func New(capacityHint int, serializers ...Serializer) *Queue {
	return &Queue{
		serializers: serializers,
		typeIndex:   buildTypeIndex(serializers),
		data:        make([]byte, 0, capacityHint),
	}
}

// FromBytes wraps an already-encoded buffer (e.g. one received over
// the wire) for decoding with the given serializer type-list. It
// scans the buffer once to establish NbEvents.
func FromBytes(data []byte, serializers ...Serializer) (*Queue, error) {
	q := &Queue{
		serializers: serializers,
		typeIndex:   buildTypeIndex(serializers),
		data:        data,
	}
	count := 0
	if err := q.ForEach(func(uint8, any) error { count++; return nil }); err != nil {
		return nil, err
	}
	q.nbEvents = count
	return q, nil
}

func buildTypeIndex(serializers []Serializer) map[reflect.Type]uint8 {
	if len(serializers) == 0 {
		panic("transit: at least one serializer is required")
	}
	if len(serializers) > 256 {
		panic("transit: at most 256 serializers are supported (one-byte tag)")
	}
	typeIndex := make(map[reflect.Type]uint8, len(serializers))
	for i, s := range serializers {
		t := s.ValueType()
		if _, dup := typeIndex[t]; dup {
			panic(fmt.Sprintf("transit: duplicate serializer for type %s", t))
		}
		typeIndex[t] = uint8(i)
	}
	return typeIndex
}

// Push appends value's wire record to the queue: [tag: u8] [size: u32,
// only when the serializer is not static-size] [payload]. It panics if
// value's concrete type was not registered with New — an unregistered
// type is a programmer error, not a runtime condition a caller should
// need to check for on every call.
func (q *Queue) Push(value any) {
	t := reflect.TypeOf(value)
	tag, ok := q.typeIndex[t]
	if !ok {
		panic(fmt.Sprintf("transit: Push: type %s was not registered with this Queue", t))
	}
	s := q.serializers[tag]

	q.data = append(q.data, tag)
	if !s.IsStaticSize() {
		q.data = wire.AppendUint32(q.data, s.Size(value))
	}
	q.data = s.Encode(q.data, value)
	q.nbEvents++
}

// NbEvents returns the number of records pushed so far.
func (q *Queue) NbEvents() int { return q.nbEvents }

// SizeBytes returns the current size of the packed buffer.
func (q *Queue) SizeBytes() int { return len(q.data) }

// Bytes returns the queue's raw packed buffer. The returned slice
// aliases Queue's internal storage and must be treated read-only — a
// block envelope sends this buffer directly over the wire.
func (q *Queue) Bytes() []byte { return q.data }

// Visitor receives each decoded record during ForEach. tag is the
// record's wire tag (its index into the Queue's registered
// serializer list); value is the concrete decoded type, suitable for
// a type switch.
type Visitor func(tag uint8, value any) error

// ForEach decodes and visits every record in order. It stops and
// returns the first error either from decoding a malformed record or
// from the visitor itself.
func (q *Queue) ForEach(visit Visitor) error {
	cursor := 0
	for cursor < len(q.data) {
		if cursor >= len(q.data) {
			return fmt.Errorf("transit: ForEach: truncated queue at offset %d", cursor)
		}
		tag := q.data[cursor]
		cursor++
		if int(tag) >= len(q.serializers) {
			return fmt.Errorf("transit: ForEach: unknown tag %d at offset %d", tag, cursor-1)
		}
		s := q.serializers[tag]

		var payloadLen int
		if s.IsStaticSize() {
			payloadLen = int(s.StaticSize())
		} else {
			if cursor+4 > len(q.data) {
				return fmt.Errorf("transit: ForEach: truncated size prefix at offset %d", cursor)
			}
			payloadLen = int(wire.ReadUint32(q.data[cursor:]))
			cursor += 4
		}
		if cursor+payloadLen > len(q.data) {
			return fmt.Errorf("transit: ForEach: truncated payload at offset %d (need %d bytes)", cursor, payloadLen)
		}
		payload := q.data[cursor : cursor+payloadLen]
		value, err := s.Decode(payload)
		if err != nil {
			return fmt.Errorf("transit: ForEach: decode tag %d at offset %d: %w", tag, cursor, err)
		}
		if err := visit(tag, value); err != nil {
			return err
		}
		cursor += payloadLen
	}
	return nil
}

// TagOf returns the wire tag assigned to a registered type, for
// callers that need to know a record's tag before pushing it. ok is
// false if t was never registered.
func (q *Queue) TagOf(t reflect.Type) (tag uint8, ok bool) {
	tag, ok = q.typeIndex[t]
	return
}

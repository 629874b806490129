// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package transit

import (
	"reflect"
	"testing"

	"github.com/lumenary/telemetry/lib/wire"
)

// fixedPoint is a static-size test record: two uint32 fields.
type fixedPoint struct{ X, Y uint32 }

type fixedPointSerializer struct{}

func (fixedPointSerializer) ValueType() reflect.Type { return reflect.TypeOf(fixedPoint{}) }
func (fixedPointSerializer) IsStaticSize() bool       { return true }
func (fixedPointSerializer) StaticSize() uint32        { return 8 }
func (fixedPointSerializer) Size(any) uint32          { return 8 }

func (fixedPointSerializer) Encode(buf []byte, value any) []byte {
	p := value.(fixedPoint)
	buf = wire.AppendUint32(buf, p.X)
	buf = wire.AppendUint32(buf, p.Y)
	return buf
}

func (fixedPointSerializer) Decode(payload []byte) (any, error) {
	return fixedPoint{X: wire.ReadUint32(payload[0:4]), Y: wire.ReadUint32(payload[4:8])}, nil
}

// tagLine is a variable-size test record: a single dynamic string.
type tagLine struct{ Text string }

type tagLineSerializer struct{}

func (tagLineSerializer) ValueType() reflect.Type { return reflect.TypeOf(tagLine{}) }
func (tagLineSerializer) IsStaticSize() bool       { return false }
func (tagLineSerializer) StaticSize() uint32        { panic("tagLine has no static size") }

func (tagLineSerializer) Size(value any) uint32 {
	return wire.NewDynamicString(value.(tagLine).Text).Size()
}

func (tagLineSerializer) Encode(buf []byte, value any) []byte {
	return wire.NewDynamicString(value.(tagLine).Text).Write(buf)
}

func (tagLineSerializer) Decode(payload []byte) (any, error) {
	ds, _, err := wire.Read(payload)
	if err != nil {
		return nil, err
	}
	return tagLine{Text: ds.String()}, nil
}

func newTestQueue() *Queue {
	return New(64, fixedPointSerializer{}, tagLineSerializer{})
}

func TestQueuePushForEachRoundtrip(t *testing.T) {
	q := newTestQueue()
	q.Push(fixedPoint{X: 1, Y: 2})
	q.Push(tagLine{Text: "hello"})
	q.Push(fixedPoint{X: 3, Y: 4})

	if q.NbEvents() != 3 {
		t.Fatalf("expected 3 events, got %d", q.NbEvents())
	}

	var got []any
	if err := q.ForEach(func(tag uint8, value any) error {
		got = append(got, value)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}

	want := []any{
		fixedPoint{X: 1, Y: 2},
		tagLine{Text: "hello"},
		fixedPoint{X: 3, Y: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestQueuePushUnregisteredTypePanics(t *testing.T) {
	q := newTestQueue()
	defer func() {
		if recover() == nil {
			t.Fatal("expected Push to panic for an unregistered type")
		}
	}()
	q.Push(struct{ Z int }{Z: 1})
}

func TestQueueSizeBytesGrowsMonotonically(t *testing.T) {
	q := newTestQueue()
	sizes := []int{q.SizeBytes()}
	q.Push(fixedPoint{X: 1, Y: 1})
	sizes = append(sizes, q.SizeBytes())
	q.Push(tagLine{Text: "x"})
	sizes = append(sizes, q.SizeBytes())

	for i := 1; i < len(sizes); i++ {
		if sizes[i] <= sizes[i-1] {
			t.Fatalf("expected strictly increasing sizes, got %v", sizes)
		}
	}
}

func TestQueueEmptyForEachVisitsNothing(t *testing.T) {
	q := newTestQueue()
	calls := 0
	if err := q.ForEach(func(uint8, any) error { calls++; return nil }); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected 0 calls on empty queue, got %d", calls)
	}
}

func TestNewDuplicateTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New to panic on duplicate serializer type")
		}
	}()
	New(8, fixedPointSerializer{}, fixedPointSerializer{})
}

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"fmt"
	"reflect"

	"github.com/lumenary/telemetry/lib/wire"
)

// BeginThreadSpanEvent marks the start of a CPU thread span.
// Wire layout: [desc_id: u64] [ts: u64].
//
// See LogStaticStrEvent's doc for what Desc vs. DescID mean across a
// process boundary.
type BeginThreadSpanEvent struct {
	Desc   *SpanMetadata
	DescID uint64
	Ts     uint64
}

type beginThreadSpanSerializer struct{}

func (beginThreadSpanSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(BeginThreadSpanEvent{})
}
func (beginThreadSpanSerializer) IsStaticSize() bool { return true }
func (beginThreadSpanSerializer) StaticSize() uint32  { return 16 }
func (beginThreadSpanSerializer) Size(any) uint32    { return 16 }

func (beginThreadSpanSerializer) Encode(buf []byte, value any) []byte {
	e := value.(BeginThreadSpanEvent)
	buf = wire.AppendUint64(buf, e.Desc.ID())
	buf = wire.AppendUint64(buf, e.Ts)
	return buf
}

func (beginThreadSpanSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < 16 {
		return nil, fmt.Errorf("events: BeginThreadSpanEvent needs 16 bytes, got %d", len(payload))
	}
	descID := wire.ReadUint64(payload[0:8])
	ts := wire.ReadUint64(payload[8:16])
	return BeginThreadSpanEvent{Desc: lookupSpanMetadata(descID), DescID: descID, Ts: ts}, nil
}

var BeginThreadSpanEventSerializer = beginThreadSpanSerializer{}

// EndThreadSpanEvent marks the end of a CPU thread span.
// Wire layout: [desc_id: u64] [ts: u64].
type EndThreadSpanEvent struct {
	Desc   *SpanMetadata
	DescID uint64
	Ts     uint64
}

type endThreadSpanSerializer struct{}

func (endThreadSpanSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(EndThreadSpanEvent{})
}
func (endThreadSpanSerializer) IsStaticSize() bool { return true }
func (endThreadSpanSerializer) StaticSize() uint32  { return 16 }
func (endThreadSpanSerializer) Size(any) uint32    { return 16 }

func (endThreadSpanSerializer) Encode(buf []byte, value any) []byte {
	e := value.(EndThreadSpanEvent)
	buf = wire.AppendUint64(buf, e.Desc.ID())
	buf = wire.AppendUint64(buf, e.Ts)
	return buf
}

func (endThreadSpanSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < 16 {
		return nil, fmt.Errorf("events: EndThreadSpanEvent needs 16 bytes, got %d", len(payload))
	}
	descID := wire.ReadUint64(payload[0:8])
	ts := wire.ReadUint64(payload[8:16])
	return EndThreadSpanEvent{Desc: lookupSpanMetadata(descID), DescID: descID, Ts: ts}, nil
}

var EndThreadSpanEventSerializer = endThreadSpanSerializer{}

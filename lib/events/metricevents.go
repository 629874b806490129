// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"fmt"
	"reflect"

	"github.com/lumenary/telemetry/lib/wire"
)

// IntegerMetricEvent carries an integer-valued metric sample.
// Wire layout: [desc_id: u64] [value: u64] [ts: u64].
//
// See LogStaticStrEvent's doc for what Desc vs. DescID mean across a
// process boundary.
type IntegerMetricEvent struct {
	Desc   *MetricMetadata
	DescID uint64
	Value  uint64
	Ts     uint64
}

type integerMetricSerializer struct{}

func (integerMetricSerializer) ValueType() reflect.Type { return reflect.TypeOf(IntegerMetricEvent{}) }
func (integerMetricSerializer) IsStaticSize() bool       { return true }
func (integerMetricSerializer) StaticSize() uint32        { return 24 }
func (integerMetricSerializer) Size(any) uint32          { return 24 }

func (integerMetricSerializer) Encode(buf []byte, value any) []byte {
	e := value.(IntegerMetricEvent)
	buf = wire.AppendUint64(buf, e.Desc.ID())
	buf = wire.AppendUint64(buf, e.Value)
	buf = wire.AppendUint64(buf, e.Ts)
	return buf
}

func (integerMetricSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < 24 {
		return nil, fmt.Errorf("events: IntegerMetricEvent needs 24 bytes, got %d", len(payload))
	}
	descID := wire.ReadUint64(payload[0:8])
	value := wire.ReadUint64(payload[8:16])
	ts := wire.ReadUint64(payload[16:24])
	return IntegerMetricEvent{Desc: lookupMetricMetadata(descID), DescID: descID, Value: value, Ts: ts}, nil
}

var IntegerMetricEventSerializer = integerMetricSerializer{}

// FloatMetricEvent carries a floating-point metric sample.
// Wire layout: [desc_id: u64] [value: f64] [ts: u64].
type FloatMetricEvent struct {
	Desc   *MetricMetadata
	DescID uint64
	Value  float64
	Ts     uint64
}

type floatMetricSerializer struct{}

func (floatMetricSerializer) ValueType() reflect.Type { return reflect.TypeOf(FloatMetricEvent{}) }
func (floatMetricSerializer) IsStaticSize() bool       { return true }
func (floatMetricSerializer) StaticSize() uint32        { return 24 }
func (floatMetricSerializer) Size(any) uint32          { return 24 }

func (floatMetricSerializer) Encode(buf []byte, value any) []byte {
	e := value.(FloatMetricEvent)
	buf = wire.AppendUint64(buf, e.Desc.ID())
	buf = wire.AppendFloat64(buf, e.Value)
	buf = wire.AppendUint64(buf, e.Ts)
	return buf
}

func (floatMetricSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < 24 {
		return nil, fmt.Errorf("events: FloatMetricEvent needs 24 bytes, got %d", len(payload))
	}
	descID := wire.ReadUint64(payload[0:8])
	value := wire.ReadFloat64(payload[8:16])
	ts := wire.ReadUint64(payload[16:24])
	return FloatMetricEvent{Desc: lookupMetricMetadata(descID), DescID: descID, Value: value, Ts: ts}, nil
}

var FloatMetricEventSerializer = floatMetricSerializer{}

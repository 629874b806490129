// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"fmt"
	"reflect"

	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

// StaticStringDependency carries a resolved static string's bytes
// inline, keyed by the identity a decoder will see referenced from a
// metadata-dependency record.
//
// Wire layout: [id: u64] [codec: u8] [size: u32] [bytes...].
type StaticStringDependency struct {
	ID    uint64
	Codec wire.Codec
	Bytes []byte
}

// NewStaticStringDependency builds a dependency record from a
// StringRef and its already-resolved bytes (lib/extract resolves
// HostInterned refs through a registry before calling this).
func NewStaticStringDependency(ref wire.StringRef, resolvedBytes []byte) StaticStringDependency {
	return StaticStringDependency{ID: ref.ID, Codec: ref.Codec, Bytes: resolvedBytes}
}

type staticStringDepSerializer struct{}

func (staticStringDepSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(StaticStringDependency{})
}
func (staticStringDepSerializer) IsStaticSize() bool { return false }
func (staticStringDepSerializer) StaticSize() uint32  { panic("events: StaticStringDependency has no static size") }

func (staticStringDepSerializer) Size(value any) uint32 {
	d := value.(StaticStringDependency)
	return 8 + 1 + 4 + uint32(len(d.Bytes))
}

func (staticStringDepSerializer) Encode(buf []byte, value any) []byte {
	d := value.(StaticStringDependency)
	buf = wire.AppendUint64(buf, d.ID)
	buf = wire.AppendUint8(buf, uint8(d.Codec))
	buf = wire.AppendUint32(buf, uint32(len(d.Bytes)))
	buf = append(buf, d.Bytes...)
	return buf
}

func (staticStringDepSerializer) Decode(payload []byte) (any, error) {
	const headerLen = 8 + 1 + 4
	if len(payload) < headerLen {
		return nil, fmt.Errorf("events: StaticStringDependency needs %d header bytes, got %d", headerLen, len(payload))
	}
	id := wire.ReadUint64(payload[0:8])
	codec := wire.Codec(payload[8])
	size := wire.ReadUint32(payload[9:13])
	if len(payload) < headerLen+int(size) {
		return nil, fmt.Errorf("events: StaticStringDependency body needs %d bytes, got %d", size, len(payload)-headerLen)
	}
	bytes := payload[headerLen : headerLen+int(size)]
	return StaticStringDependency{ID: id, Codec: codec, Bytes: bytes}, nil
}

var StaticStringDependencySerializer = staticStringDepSerializer{}

// LogMetadataDependency is a flat copy of a LogMetadata plus its
// identity, materialized once per block by the extractor.
//
// Wire layout: [id: u64] [target, msg, file: StringRef POD] [line: u32] [level: u8].
type LogMetadataDependency struct {
	ID     uint64
	Target wire.StringRef
	Msg    wire.StringRef
	File   wire.StringRef
	Line   uint32
	Level  Level
}

// NewLogMetadataDependency flattens a *LogMetadata into its
// dependency-record form.
func NewLogMetadataDependency(m *LogMetadata) LogMetadataDependency {
	return LogMetadataDependency{
		ID:     m.ID(),
		Target: m.Target,
		Msg:    m.Msg,
		File:   m.File,
		Line:   m.Line,
		Level:  m.Level,
	}
}

const logMetadataDependencySize = 8 + 3*wire.PODSize + 4 + 1

type logMetadataDepSerializer struct{}

func (logMetadataDepSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(LogMetadataDependency{})
}
func (logMetadataDepSerializer) IsStaticSize() bool { return true }
func (logMetadataDepSerializer) StaticSize() uint32  { return logMetadataDependencySize }
func (logMetadataDepSerializer) Size(any) uint32    { return logMetadataDependencySize }

func (logMetadataDepSerializer) Encode(buf []byte, value any) []byte {
	d := value.(LogMetadataDependency)
	buf = wire.AppendUint64(buf, d.ID)
	buf = d.Target.WritePOD(buf)
	buf = d.Msg.WritePOD(buf)
	buf = d.File.WritePOD(buf)
	buf = wire.AppendUint32(buf, d.Line)
	buf = wire.AppendUint8(buf, uint8(d.Level))
	return buf
}

func (logMetadataDepSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < logMetadataDependencySize {
		return nil, fmt.Errorf("events: LogMetadataDependency needs %d bytes, got %d", logMetadataDependencySize, len(payload))
	}
	cursor := 0
	id := wire.ReadUint64(payload[cursor:])
	cursor += 8
	target, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	msg, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	file, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	line := wire.ReadUint32(payload[cursor:])
	cursor += 4
	level := Level(payload[cursor])
	return LogMetadataDependency{ID: id, Target: target, Msg: msg, File: file, Line: line, Level: level}, nil
}

var LogMetadataDependencySerializer = logMetadataDepSerializer{}

// MetricMetadataDependency is a flat copy of a MetricMetadata plus
// its identity.
//
// Wire layout: [id: u64] [lod: u8] [name, unit, target, file: StringRef POD] [line: u32].
type MetricMetadataDependency struct {
	ID     uint64
	Lod    Verbosity
	Name   wire.StringRef
	Unit   wire.StringRef
	Target wire.StringRef
	File   wire.StringRef
	Line   uint32
}

func NewMetricMetadataDependency(m *MetricMetadata) MetricMetadataDependency {
	return MetricMetadataDependency{
		ID:     m.ID(),
		Lod:    m.Lod,
		Name:   m.Name,
		Unit:   m.Unit,
		Target: m.Target,
		File:   m.File,
		Line:   m.Line,
	}
}

const metricMetadataDependencySize = 8 + 1 + 4*wire.PODSize + 4

type metricMetadataDepSerializer struct{}

func (metricMetadataDepSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(MetricMetadataDependency{})
}
func (metricMetadataDepSerializer) IsStaticSize() bool { return true }
func (metricMetadataDepSerializer) StaticSize() uint32  { return metricMetadataDependencySize }
func (metricMetadataDepSerializer) Size(any) uint32    { return metricMetadataDependencySize }

func (metricMetadataDepSerializer) Encode(buf []byte, value any) []byte {
	d := value.(MetricMetadataDependency)
	buf = wire.AppendUint64(buf, d.ID)
	buf = wire.AppendUint8(buf, uint8(d.Lod))
	buf = d.Name.WritePOD(buf)
	buf = d.Unit.WritePOD(buf)
	buf = d.Target.WritePOD(buf)
	buf = d.File.WritePOD(buf)
	buf = wire.AppendUint32(buf, d.Line)
	return buf
}

func (metricMetadataDepSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < metricMetadataDependencySize {
		return nil, fmt.Errorf("events: MetricMetadataDependency needs %d bytes, got %d", metricMetadataDependencySize, len(payload))
	}
	cursor := 0
	id := wire.ReadUint64(payload[cursor:])
	cursor += 8
	lod := Verbosity(payload[cursor])
	cursor++
	name, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	unit, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	target, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	file, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	line := wire.ReadUint32(payload[cursor:])
	return MetricMetadataDependency{ID: id, Lod: lod, Name: name, Unit: unit, Target: target, File: file, Line: line}, nil
}

var MetricMetadataDependencySerializer = metricMetadataDepSerializer{}

// SpanMetadataDependency is a flat copy of a SpanMetadata plus its
// identity.
//
// Wire layout: [id: u64] [name, target, file: StringRef POD] [line: u32].
type SpanMetadataDependency struct {
	ID     uint64
	Name   wire.StringRef
	Target wire.StringRef
	File   wire.StringRef
	Line   uint32
}

func NewSpanMetadataDependency(m *SpanMetadata) SpanMetadataDependency {
	return SpanMetadataDependency{
		ID:     m.ID(),
		Name:   m.Name,
		Target: m.Target,
		File:   m.File,
		Line:   m.Line,
	}
}

const spanMetadataDependencySize = 8 + 3*wire.PODSize + 4

type spanMetadataDepSerializer struct{}

func (spanMetadataDepSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(SpanMetadataDependency{})
}
func (spanMetadataDepSerializer) IsStaticSize() bool { return true }
func (spanMetadataDepSerializer) StaticSize() uint32  { return spanMetadataDependencySize }
func (spanMetadataDepSerializer) Size(any) uint32    { return spanMetadataDependencySize }

func (spanMetadataDepSerializer) Encode(buf []byte, value any) []byte {
	d := value.(SpanMetadataDependency)
	buf = wire.AppendUint64(buf, d.ID)
	buf = d.Name.WritePOD(buf)
	buf = d.Target.WritePOD(buf)
	buf = d.File.WritePOD(buf)
	buf = wire.AppendUint32(buf, d.Line)
	return buf
}

func (spanMetadataDepSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < spanMetadataDependencySize {
		return nil, fmt.Errorf("events: SpanMetadataDependency needs %d bytes, got %d", spanMetadataDependencySize, len(payload))
	}
	cursor := 0
	id := wire.ReadUint64(payload[cursor:])
	cursor += 8
	name, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	target, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	file, err := wire.ReadPOD(payload[cursor : cursor+wire.PODSize])
	if err != nil {
		return nil, err
	}
	cursor += wire.PODSize
	line := wire.ReadUint32(payload[cursor:])
	return SpanMetadataDependency{ID: id, Name: name, Target: target, File: file, Line: line}, nil
}

var SpanMetadataDependencySerializer = spanMetadataDepSerializer{}

// LogObjectSerializers is the fixed, ordered type-list for a log
// stream's object queue. Each stream kind gets its own tag-0-based
// list rather than sharing one global enum, so its wire tags line up
// with the corresponding lib/envelope.LogObjectUDTs() schema a
// decoder receives in the stream's init envelope. The order is the
// wire tag assignment and must not change once blocks have shipped
// with it.
var LogObjectSerializers = []transit.Serializer{
	LogStaticStrEventSerializer,
	LogStringInteropEventSerializer,
}

// MetricObjectSerializers is the fixed, ordered type-list for a
// metric stream's object queue, matching lib/envelope.MetricObjectUDTs().
var MetricObjectSerializers = []transit.Serializer{
	IntegerMetricEventSerializer,
	FloatMetricEventSerializer,
}

// SpanObjectSerializers is the fixed, ordered type-list for a
// thread-span stream's object queue, matching
// lib/envelope.SpanObjectUDTs().
var SpanObjectSerializers = []transit.Serializer{
	BeginThreadSpanEventSerializer,
	EndThreadSpanEventSerializer,
}

// DependencyQueueSerializers is the fixed, ordered type-list for a
// block's dependency queue.
var DependencyQueueSerializers = []transit.Serializer{
	StaticStringDependencySerializer,
	LogMetadataDependencySerializer,
	MetricMetadataDependencySerializer,
	SpanMetadataDependencySerializer,
}

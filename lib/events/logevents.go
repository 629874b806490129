// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"fmt"
	"reflect"

	"github.com/lumenary/telemetry/lib/wire"
)

// LogStaticStrEvent is a log event whose message is a compile-time
// constant. Wire layout: [desc_id: u64] [ts: u64].
//
// DescID is the wire identity as read off the payload; Desc resolves
// it to a live descriptor when one was registered in this process
// (the producer's own NewLogMetadata call), and is nil otherwise — a
// block decoded in a different process, or after this one's own
// descriptors are gone, never has one. Only DescID is meaningful
// across that boundary; treat it as opaque rather than an address.
type LogStaticStrEvent struct {
	Desc   *LogMetadata
	DescID uint64
	Ts     uint64
}

type logStaticStrSerializer struct{}

func (logStaticStrSerializer) ValueType() reflect.Type { return reflect.TypeOf(LogStaticStrEvent{}) }
func (logStaticStrSerializer) IsStaticSize() bool       { return true }
func (logStaticStrSerializer) StaticSize() uint32       { return 16 }
func (logStaticStrSerializer) Size(any) uint32          { return 16 }

func (logStaticStrSerializer) Encode(buf []byte, value any) []byte {
	e := value.(LogStaticStrEvent)
	buf = wire.AppendUint64(buf, e.Desc.ID())
	buf = wire.AppendUint64(buf, e.Ts)
	return buf
}

func (logStaticStrSerializer) Decode(payload []byte) (any, error) {
	if len(payload) < 16 {
		return nil, fmt.Errorf("events: LogStaticStrEvent needs 16 bytes, got %d", len(payload))
	}
	descID := wire.ReadUint64(payload[0:8])
	ts := wire.ReadUint64(payload[8:16])
	return LogStaticStrEvent{Desc: lookupLogMetadata(descID), DescID: descID, Ts: ts}, nil
}

// LogStaticStrEventSerializer is the registered Serializer for LogStaticStrEvent.
var LogStaticStrEventSerializer = logStaticStrSerializer{}

// LogStringInteropEvent is a log event captured from a runtime-formed
// string, the interop path for callers that build messages with
// fmt.Sprintf-style formatting instead of a compile-time constant.
// Only the target is a static reference; the message is inline.
//
// Wire layout: [ts: u64] [level: u8] [target: StringRef POD] [msg: DynamicString].
type LogStringInteropEvent struct {
	Ts     uint64
	Level  Level
	Target wire.StringRef
	Msg    wire.DynamicString
}

type logStringInteropSerializer struct{}

func (logStringInteropSerializer) ValueType() reflect.Type {
	return reflect.TypeOf(LogStringInteropEvent{})
}
func (logStringInteropSerializer) IsStaticSize() bool { return false }
func (logStringInteropSerializer) StaticSize() uint32 {
	panic("events: LogStringInteropEvent has no static size")
}

func (logStringInteropSerializer) Size(value any) uint32 {
	e := value.(LogStringInteropEvent)
	return 8 + 1 + wire.PODSize + e.Msg.Size()
}

func (logStringInteropSerializer) Encode(buf []byte, value any) []byte {
	e := value.(LogStringInteropEvent)
	buf = wire.AppendUint64(buf, e.Ts)
	buf = wire.AppendUint8(buf, uint8(e.Level))
	buf = e.Target.WritePOD(buf)
	buf = e.Msg.Write(buf)
	return buf
}

func (logStringInteropSerializer) Decode(payload []byte) (any, error) {
	const headerLen = 8 + 1 + wire.PODSize
	if len(payload) < headerLen {
		return nil, fmt.Errorf("events: LogStringInteropEvent needs %d header bytes, got %d", headerLen, len(payload))
	}
	ts := wire.ReadUint64(payload[0:8])
	level := Level(payload[8])
	target, err := wire.ReadPOD(payload[9:headerLen])
	if err != nil {
		return nil, fmt.Errorf("events: LogStringInteropEvent target: %w", err)
	}
	msg, _, err := wire.Read(payload[headerLen:])
	if err != nil {
		return nil, fmt.Errorf("events: LogStringInteropEvent msg: %w", err)
	}
	return LogStringInteropEvent{Ts: ts, Level: level, Target: target, Msg: msg}, nil
}

var LogStringInteropEventSerializer = logStringInteropSerializer{}

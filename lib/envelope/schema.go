// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import "github.com/lumenary/telemetry/lib/wire"

// UDTMember describes one field of a record's byte layout.
type UDTMember struct {
	Name        string `json:"name"`
	TypeName    string `json:"type_name"`
	Offset      uint32 `json:"offset"`
	Size        uint32 `json:"size"`
	IsReference bool   `json:"is_reference"`
}

// UDT (user-defined type) is the on-wire schema for one record shape.
// A zero Size signals a variable-size record that needs custom
// parsing rather than a fixed byte-offset read.
type UDT struct {
	Name        string      `json:"name"`
	Size        uint32      `json:"size"`
	IsReference bool        `json:"is_reference"`
	Members     []UDTMember `json:"members"`
}

// stringRefMember describes a StringRef-typed field at the given
// offset: every StringRef is a fixed wire.PODSize-byte POD and is
// itself a reference the decoder resolves against the block's
// dependency set.
func stringRefMember(name string, offset uint32) UDTMember {
	return UDTMember{Name: name, TypeName: "StringRef", Offset: offset, Size: uint32(wire.PODSize), IsReference: true}
}

// LogObjectUDTs describes the record shapes a log stream's object
// queue can contain.
func LogObjectUDTs() []UDT {
	return []UDT{
		{
			Name: "LogStaticStrEvent", Size: 16,
			Members: []UDTMember{
				{Name: "desc_id", TypeName: "u64", Offset: 0, Size: 8, IsReference: true},
				{Name: "ts", TypeName: "u64", Offset: 8, Size: 8},
			},
		},
		{
			// Size 0: the DynamicString tail is variable-length.
			Name: "LogStringInteropEvent", Size: 0,
			Members: []UDTMember{
				{Name: "ts", TypeName: "u64", Offset: 0, Size: 8},
				{Name: "level", TypeName: "u8", Offset: 8, Size: 1},
				stringRefMember("target", 9),
				{Name: "msg", TypeName: "DynamicString", Offset: 9 + uint32(wire.PODSize), Size: 0},
			},
		},
	}
}

// MetricObjectUDTs describes the record shapes a metric stream's
// object queue can contain.
func MetricObjectUDTs() []UDT {
	return []UDT{
		{
			Name: "IntegerMetricEvent", Size: 24,
			Members: []UDTMember{
				{Name: "desc_id", TypeName: "u64", Offset: 0, Size: 8, IsReference: true},
				{Name: "value", TypeName: "u64", Offset: 8, Size: 8},
				{Name: "ts", TypeName: "u64", Offset: 16, Size: 8},
			},
		},
		{
			Name: "FloatMetricEvent", Size: 24,
			Members: []UDTMember{
				{Name: "desc_id", TypeName: "u64", Offset: 0, Size: 8, IsReference: true},
				{Name: "value", TypeName: "f64", Offset: 8, Size: 8},
				{Name: "ts", TypeName: "u64", Offset: 16, Size: 8},
			},
		},
	}
}

// SpanObjectUDTs describes the record shapes a thread-span stream's
// object queue can contain.
func SpanObjectUDTs() []UDT {
	return []UDT{
		{
			Name: "BeginThreadSpanEvent", Size: 16,
			Members: []UDTMember{
				{Name: "desc_id", TypeName: "u64", Offset: 0, Size: 8, IsReference: true},
				{Name: "ts", TypeName: "u64", Offset: 8, Size: 8},
			},
		},
		{
			Name: "EndThreadSpanEvent", Size: 16,
			Members: []UDTMember{
				{Name: "desc_id", TypeName: "u64", Offset: 0, Size: 8, IsReference: true},
				{Name: "ts", TypeName: "u64", Offset: 8, Size: 8},
			},
		},
	}
}

// DependencyUDTs describes the record shapes any stream's dependency
// queue can contain — the type-list is the same across stream kinds.
func DependencyUDTs() []UDT {
	podSize := uint32(wire.PODSize)
	return []UDT{
		{
			Name: "StaticStringDependency", Size: 0,
			Members: []UDTMember{
				{Name: "id", TypeName: "u64", Offset: 0, Size: 8},
				{Name: "codec", TypeName: "u8", Offset: 8, Size: 1},
				{Name: "size", TypeName: "u32", Offset: 9, Size: 4},
				{Name: "bytes", TypeName: "bytes", Offset: 13, Size: 0},
			},
		},
		{
			Name: "LogMetadataDependency", Size: 8 + 3*podSize + 4 + 1,
			Members: []UDTMember{
				{Name: "id", TypeName: "u64", Offset: 0, Size: 8},
				stringRefMember("target", 8),
				stringRefMember("msg", 8+podSize),
				stringRefMember("file", 8+2*podSize),
				{Name: "line", TypeName: "u32", Offset: 8 + 3*podSize, Size: 4},
				{Name: "level", TypeName: "u8", Offset: 8 + 3*podSize + 4, Size: 1},
			},
		},
		{
			Name: "MetricMetadataDependency", Size: 8 + 1 + 4*podSize + 4,
			Members: []UDTMember{
				{Name: "id", TypeName: "u64", Offset: 0, Size: 8},
				{Name: "lod", TypeName: "u8", Offset: 8, Size: 1},
				stringRefMember("name", 9),
				stringRefMember("unit", 9+podSize),
				stringRefMember("target", 9+2*podSize),
				stringRefMember("file", 9+3*podSize),
				{Name: "line", TypeName: "u32", Offset: 9 + 4*podSize, Size: 4},
			},
		},
		{
			Name: "SpanMetadataDependency", Size: 8 + 3*podSize + 4,
			Members: []UDTMember{
				{Name: "id", TypeName: "u64", Offset: 0, Size: 8},
				stringRefMember("name", 8),
				stringRefMember("target", 8+podSize),
				stringRefMember("file", 8+2*podSize),
				{Name: "line", TypeName: "u32", Offset: 8 + 3*podSize, Size: 4},
			},
		},
	}
}

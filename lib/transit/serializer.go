// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package transit

import "reflect"

// Serializer is the per-element-type contract a record shape must
// satisfy to live in a Queue: a static-or-dynamic size (IsStaticSize,
// StaticSize, Size), Encode (which appends the raw payload only — the
// tag and optional length prefix are the Queue's job, not the
// Serializer's), and Decode.
type Serializer interface {
	// ValueType is the concrete Go type this Serializer encodes and
	// decodes. Queue uses it to build the tag-by-type index at
	// registration time.
	ValueType() reflect.Type

	// IsStaticSize reports whether every value of this type encodes
	// to the same number of bytes. Static-size records skip the
	// per-record u32 length prefix.
	IsStaticSize() bool

	// StaticSize returns the fixed payload size. Only valid when
	// IsStaticSize returns true.
	StaticSize() uint32

	// Size returns the payload size in bytes for a specific value.
	// For a static-size type this must equal StaticSize().
	Size(value any) uint32

	// Encode appends value's raw payload bytes to buf and returns the
	// extended slice. Must write exactly Size(value) bytes.
	Encode(buf []byte, value any) []byte

	// Decode parses a value from payload, which is exactly Size(value)
	// bytes (the Queue has already sliced it to the right length).
	Decode(payload []byte) (any, error)
}

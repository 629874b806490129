// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// DynamicString is a runtime-formed string fully owned at
// serialization time. Unlike StringRef, its bytes are copied into the
// queue on Push; there is no identity to deduplicate.
type DynamicString struct {
	Codec Codec
	Bytes []byte
}

// NewDynamicString wraps a runtime-formed UTF-8 string.
func NewDynamicString(s string) DynamicString {
	return DynamicString{Codec: CodecUtf8, Bytes: []byte(s)}
}

// String returns the string formed from Bytes, assuming a UTF-8-ish
// codec (CodecAnsi is treated the same since Go has no built-in
// single-byte codepage decoder and host-side Ansi payloads are
// overwhelmingly ASCII in practice).
func (d DynamicString) String() string { return string(d.Bytes) }

// Size returns the wire size of d's encoding: [codec: u8] [size: u32]
// [bytes...].
func (d DynamicString) Size() uint32 {
	return 1 + 4 + uint32(len(d.Bytes))
}

// Write appends d's wire encoding to buf.
func (d DynamicString) Write(buf []byte) []byte {
	buf = append(buf, byte(d.Codec))
	buf = appendUint32(buf, uint32(len(d.Bytes)))
	buf = append(buf, d.Bytes...)
	return buf
}

// Read decodes a DynamicString starting at buf[0]. It returns the
// number of bytes consumed so the caller's cursor can advance.
//
// Read returns Bytes as a subslice of buf rather than an owned copy,
// so a visitor that only reads the value in passing never pays for a
// copy it doesn't need. Callers that need to retain the value past the
// buffer's lifetime must copy it themselves.
func Read(buf []byte) (DynamicString, int, error) {
	if len(buf) < 5 {
		return DynamicString{}, 0, fmt.Errorf("wire: DynamicString header needs 5 bytes, got %d", len(buf))
	}
	codec := Codec(buf[0])
	size := readUint32(buf[1:])
	total := 5 + int(size)
	if len(buf) < total {
		return DynamicString{}, 0, fmt.Errorf("wire: DynamicString body needs %d bytes, got %d", size, len(buf)-5)
	}
	return DynamicString{Codec: codec, Bytes: buf[5:total]}, total, nil
}

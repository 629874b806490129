// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"math"
)

// endian is the host's native byte order. Every multi-byte integer in
// the binary block payload is host-endian; a decoder learns which
// endianness the producing process used out-of-band, via the
// stream-init envelope's UDT schema. Using the native order here,
// rather than picking one arbitrarily, is what makes that declaration
// meaningful.
var endian = binary.NativeEndian

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	endian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	endian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendFloat64(buf []byte, v float64) []byte {
	return appendUint64(buf, math.Float64bits(v))
}

func readUint32(buf []byte) uint32 {
	return endian.Uint32(buf)
}

func readUint64(buf []byte) uint64 {
	return endian.Uint64(buf)
}

func readFloat64(buf []byte) float64 {
	return math.Float64frombits(readUint64(buf))
}

// AppendUint8, AppendUint32, AppendUint64 and AppendFloat64 are the
// exported forms used by lib/events to build POD record
// layouts without importing encoding/binary themselves — buf is the
// single source of truth for the wire layout.

func AppendUint8(buf []byte, v uint8) []byte     { return append(buf, v) }
func AppendUint32(buf []byte, v uint32) []byte   { return appendUint32(buf, v) }
func AppendUint64(buf []byte, v uint64) []byte   { return appendUint64(buf, v) }
func AppendFloat64(buf []byte, v float64) []byte { return appendFloat64(buf, v) }

func ReadUint8(buf []byte) uint8     { return buf[0] }
func ReadUint32(buf []byte) uint32   { return readUint32(buf) }
func ReadUint64(buf []byte) uint64   { return readUint64(buf) }
func ReadFloat64(buf []byte) float64 { return readFloat64(buf) }

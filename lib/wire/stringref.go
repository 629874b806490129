// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"sync"
	"unsafe"
)

// staticStrings maps every identity InternStaticString has handed out
// in this process to its string, so a StringRef decoded back off the
// wire (which carries no bytes) still resolves.
var staticStrings sync.Map // uint64 -> string

// StringRef is an ungrown reference to a string whose bytes live
// outside the event record itself. Identity is the address of the
// referenced data: two StringRefs with the same
// ID refer to the same logical string, regardless of how many times
// it was interned.
//
// The POD wire form (what [transit.Serializer] implementations write
// into the queue) is exactly (Codec, ID, Len) — 13 bytes, no inline
// text. The resolvable bytes, when the codec carries them, are kept
// out-of-band on this value and returned by Resolve, never written
// into an event record's bytes.
type StringRef struct {
	Codec Codec
	ID    uint64
	Len   uint32

	// bytes holds the resolvable text for every codec except
	// CodecHostInterned, where resolution goes through an
	// InternRegistry instead. nil for a zero StringRef.
	bytes []byte
}

// PODSize is the fixed wire size of a StringRef's POD encoding:
// 1 (codec) + 8 (id) + 4 (len) bytes.
const PODSize = 1 + 8 + 4

// InternStaticString builds a StringRef over a Go string literal or
// package-level constant. The identity is derived from the address of
// the string's backing data, which is stable for the lifetime of the
// process for any string that is not built at runtime from mutable
// storage — the referent must be statically allocated for the
// process's lifetime for the identity to stay valid.
//
// Calling InternStaticString twice on two occurrences of the same
// string literal yields StringRefs with equal ID: the Go compiler
// deduplicates identical string constants into one backing array.
func InternStaticString(s string) StringRef {
	if len(s) == 0 {
		return StringRef{Codec: CodecUtf8}
	}
	id := identityOf(s)
	if _, ok := staticStrings.Load(id); !ok {
		staticStrings.Store(id, s)
	}
	return StringRef{
		Codec: CodecUtf8,
		ID:    id,
		Len:   uint32(len(s)),
		bytes: []byte(s),
	}
}

// HostInterned builds a StringRef whose bytes are not resolvable
// locally: it carries no embedded bytes at emission time, and the
// extractor materializes bytes later by querying the host's
// string-intern registry. id is whatever identifier that registry
// uses.
func HostInterned(id uint64, length uint32) StringRef {
	return StringRef{Codec: CodecHostInterned, ID: id, Len: length}
}

// IsZero reports whether r is the zero StringRef (no string
// referenced — e.g. an optional field left unset).
func (r StringRef) IsZero() bool { return r.Codec == CodecUtf8 && r.ID == 0 && r.Len == 0 }

// Resolve returns the referenced string's bytes. For every codec but
// CodecHostInterned the bytes are already attached to the StringRef,
// or, for a StringRef decoded by ReadPOD, looked up by ID among the
// strings InternStaticString has seen in this process (nil if the ID
// is not among them).
// For CodecHostInterned, registry is consulted; registry may be nil
// only if the caller already knows no HostInterned strings are in
// play (Resolve panics with a clear message otherwise, since a nil
// registry with a HostInterned ref is a caller bug, not a runtime
// condition).
func (r StringRef) Resolve(registry InternRegistry) ([]byte, error) {
	if r.Codec != CodecHostInterned {
		if r.bytes == nil && r.ID != 0 {
			if s, ok := staticStrings.Load(r.ID); ok {
				return []byte(s.(string)), nil
			}
		}
		return r.bytes, nil
	}
	if registry == nil {
		panic("wire: StringRef.Resolve: HostInterned string with nil registry")
	}
	return registry.Resolve(r.ID)
}

// InternRegistry resolves CodecHostInterned identities to their
// backing bytes — the host's string-intern registry, resolved at
// serialization time. The core only consumes this interface.
type InternRegistry interface {
	Resolve(id uint64) ([]byte, error)
}

// identityOf derives a stable 64-bit identity from the address of s's
// backing storage. Safe only because the referent (a string literal's
// backing array) is allocated once for the process's lifetime and
// never moves. The ID is opaque to decoders; no cross-process
// correlation is implied or required.
func identityOf(s string) uint64 {
	return uint64(uintptr(unsafe.Pointer(unsafe.StringData(s))))
}

// WritePOD appends the fixed-size POD encoding of r to buf.
func (r StringRef) WritePOD(buf []byte) []byte {
	buf = append(buf, byte(r.Codec))
	buf = appendUint64(buf, r.ID)
	buf = appendUint32(buf, r.Len)
	return buf
}

// ReadPOD decodes a StringRef's POD encoding starting at buf[0]. The
// decoded value has no bytes attached. Resolve still finds them when
// the ID came from InternStaticString in this same process; a
// StringRef from another process resolves only through the dependency
// set that travelled alongside the block.
func ReadPOD(buf []byte) (StringRef, error) {
	if len(buf) < PODSize {
		return StringRef{}, fmt.Errorf("wire: StringRef POD needs %d bytes, got %d", PODSize, len(buf))
	}
	return StringRef{
		Codec: Codec(buf[0]),
		ID:    readUint64(buf[1:]),
		Len:   readUint32(buf[9:]),
	}, nil
}

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"sync"
	"unsafe"

	"github.com/lumenary/telemetry/lib/wire"
)

// identityOf derives the 64-bit wire identity of a metadata
// descriptor from its address, mirroring wire.InternStaticString's
// treatment of string literals. Callers must only take the identity
// of descriptors that live for the process's whole lifetime (see the
// package doc). This is the safe direction of pointer-to-integer
// conversion: the pointer is live and addressable at the call site,
// and the resulting integer is never converted back into a pointer in
// this process.
func identityOf(p unsafe.Pointer) uint64 { return uint64(uintptr(p)) }

// descriptorRegistry resolves a wire identity back to the live
// descriptor that produced it, for same-process consumers (the
// dependency extractor). An id with no entry means either a
// descriptor from a different process's address space, or a block
// read back from disk after this process's own descriptors are gone
// — in both cases the caller has no live object to resolve and must
// treat the id as opaque, never as a reusable pointer.
type descriptorRegistry[T any] struct {
	mu   sync.Mutex
	byID map[uint64]*T
}

func (r *descriptorRegistry[T]) register(id uint64, v *T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID == nil {
		r.byID = make(map[uint64]*T)
	}
	r.byID[id] = v
}

func (r *descriptorRegistry[T]) lookup(id uint64) *T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

var (
	logMetadataRegistry    descriptorRegistry[LogMetadata]
	metricMetadataRegistry descriptorRegistry[MetricMetadata]
	spanMetadataRegistry   descriptorRegistry[SpanMetadata]
)

// LogMetadata is a log call site's static descriptor.
type LogMetadata struct {
	Target wire.StringRef
	Msg    wire.StringRef
	File   wire.StringRef
	Line   uint32
	Level  Level
}

// NewLogMetadata interns target/msg/file and returns a descriptor
// suitable for assigning to a package-level var at init time.
func NewLogMetadata(target, msg, file string, line uint32, level Level) *LogMetadata {
	m := &LogMetadata{
		Target: wire.InternStaticString(target),
		Msg:    wire.InternStaticString(msg),
		File:   wire.InternStaticString(file),
		Line:   line,
		Level:  level,
	}
	logMetadataRegistry.register(identityOf(unsafe.Pointer(m)), m)
	return m
}

// ID returns the descriptor's wire identity.
func (m *LogMetadata) ID() uint64 { return identityOf(unsafe.Pointer(m)) }

// lookupLogMetadata resolves a wire identity to the descriptor that
// produced it, if that descriptor was constructed in this process.
// Returns nil otherwise — the id is never reinterpreted as a pointer.
func lookupLogMetadata(id uint64) *LogMetadata { return logMetadataRegistry.lookup(id) }

// MetricMetadata is a metric call site's static descriptor.
type MetricMetadata struct {
	Lod    Verbosity
	Name   wire.StringRef
	Unit   wire.StringRef
	Target wire.StringRef
	File   wire.StringRef
	Line   uint32
}

func NewMetricMetadata(lod Verbosity, name, unit, target, file string, line uint32) *MetricMetadata {
	m := &MetricMetadata{
		Lod:    lod,
		Name:   wire.InternStaticString(name),
		Unit:   wire.InternStaticString(unit),
		Target: wire.InternStaticString(target),
		File:   wire.InternStaticString(file),
		Line:   line,
	}
	metricMetadataRegistry.register(identityOf(unsafe.Pointer(m)), m)
	return m
}

func (m *MetricMetadata) ID() uint64 { return identityOf(unsafe.Pointer(m)) }

func lookupMetricMetadata(id uint64) *MetricMetadata { return metricMetadataRegistry.lookup(id) }

// SpanMetadata is a thread-span call site's static descriptor.
type SpanMetadata struct {
	Name   wire.StringRef
	Target wire.StringRef
	File   wire.StringRef
	Line   uint32
}

func NewSpanMetadata(name, target, file string, line uint32) *SpanMetadata {
	m := &SpanMetadata{
		Name:   wire.InternStaticString(name),
		Target: wire.InternStaticString(target),
		File:   wire.InternStaticString(file),
		Line:   line,
	}
	spanMetadataRegistry.register(identityOf(unsafe.Pointer(m)), m)
	return m
}

func (m *SpanMetadata) ID() uint64 { return identityOf(unsafe.Pointer(m)) }

func lookupSpanMetadata(id uint64) *SpanMetadata { return spanMetadataRegistry.lookup(id) }

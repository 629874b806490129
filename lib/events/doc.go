// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package events defines the record shapes admitted into the
// heterogeneous queues: log, metric, and thread-span events; their
// long-lived metadata descriptors; and the dependency records the
// extractor materializes per block.
//
// Metadata descriptors (LogMetadata, MetricMetadata, SpanMetadata) are
// meant to be allocated once, at package init time, and held live for
// the process's whole lifetime: an event's wire identity is the
// descriptor's address at the moment it was constructed, and each
// NewXMetadata constructor records that address in a package-level
// registry mapping id back to the live descriptor. Decode never turns
// a wire id back into a pointer itself; it calls lookupXMetadata,
// which returns the registered descriptor for a same-process id or
// nil for a foreign one. A decoded event's Desc field is nil whenever
// the block came from another process, or this process's own
// descriptor registration hasn't happened yet (or never will); DescID
// carries the raw id across that boundary for callers that only need
// to compare identity, not dereference fields.
package events

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope implements the block envelope formatter: the JSON
// header plus LZ4-frame-compressed dependency and object queues that
// together form a sealed block's wire payload, and the companion JSON
// envelopes describing a stream's schema and a process's identity.
package envelope

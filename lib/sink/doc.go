// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package sink implements the asynchronous shipping worker: an
// EventSink whose callbacks package a shipping task onto a queue
// drained by a single background worker, so Dispatch never blocks the
// calling thread on network I/O.
package sink

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package flushmonitor periodically forces idle event streams to
// rotate so that data sitting in a partially-filled block doesn't wait
// indefinitely for enough events to fill it. Without this, a process
// that logs once and then goes quiet would never ship that log line.
//
// The monitor only acts when the sink reports itself idle (IsBusy()
// == false) and more than flushDelay has elapsed since the last flush
// of either kind — busy periods are left alone since a stream under
// active write pressure will fill and rotate on its own soon.
package flushmonitor

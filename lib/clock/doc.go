// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the small, injectable time abstraction used
// by flushmonitor.Monitor and sink.RetryingTransport: a wake-up
// ticker for periodic checks and a delay channel for retry backoff.
//
// Real() wires the standard library's behavior into production
// callers. Fake() gives tests a clock that only moves when Advance is
// called, so a retry backoff or a flush deadline can be exercised
// deterministically instead of racing against a real sleep.
//
//	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	m := flushmonitor.New(flushmonitor.Config{Clock: clk, ...})
//	go m.Run(ctx)
//	clk.Advance(flushDelay) // deterministically trips the next check
package clock

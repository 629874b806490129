// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry is a high-frequency structured logging, metrics,
// and thread-span tracing library. A host process calls Init once at
// startup, then calls Log/Logf, IntMetric/FloatMetric, and
// AcquireSpanStream from anywhere in the program; Shutdown drains and
// ships everything still buffered before the process exits.
//
// Every call is safe before Init and after Shutdown: the package-level
// functions read a process-wide singleton that starts and ends as
// nil, and on a nil Dispatch every one of them is a no-op, except
// that LogEnabled reports false and AcquireSpanStream returns an
// error.
package telemetry

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostclock provides the monotonic cycle-counter primitive that
// DualTime timestamps are built from. lib/clock.Clock gives wall time
// and timers for scheduling; the wire format additionally wants a
// cheap monotonic counter independent of wall-clock adjustments, plus
// the conversion factor back to seconds, which hostclock.Source covers.
//
// Go has no portable access to a hardware cycle counter (rdtsc and
// friends are per-platform and require cgo or assembly), so Source's
// default implementation uses runtime-provided monotonic nanoseconds as
// the "cycle" unit and reports a conversion factor of 1e-9 seconds per
// cycle. This keeps the wire format's two-track timestamp (raw ticks +
// ISO wall time) meaningful without pretending to emulate a specific
// CPU's TSC.
package hostclock

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package hostclock

import "time"

// FakeSource is a deterministic Source for tests, mirroring
// lib/clock's FakeClock.
type FakeSource struct {
	cycles uint64
	now    time.Time
}

// Fake returns a FakeSource starting at the given wall-clock time
// with a zero cycle counter.
func Fake(initial time.Time) *FakeSource {
	return &FakeSource{now: initial}
}

func (f *FakeSource) Cycles() uint64          { return f.cycles }
func (f *FakeSource) SecondsPerCycle() float64 { return 1e-9 }
func (f *FakeSource) Now() time.Time          { return f.now }

// Advance moves the fake source forward by d of wall-clock time and
// cycles of the monotonic counter.
func (f *FakeSource) Advance(d time.Duration, cycles uint64) {
	f.now = f.now.Add(d)
	f.cycles += cycles
}

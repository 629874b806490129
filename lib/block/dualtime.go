// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"time"

	"github.com/lumenary/telemetry/lib/hostclock"
)

// DualTime pairs a monotonic cycle count with a wall-clock timestamp
// captured at the same instant.
type DualTime struct {
	Cycles uint64
	Wall   time.Time
}

// Now captures a DualTime from src.
func Now(src hostclock.Source) DualTime {
	return DualTime{Cycles: src.Cycles(), Wall: src.Now()}
}

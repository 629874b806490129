// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"os"
	"os/user"
	"runtime"

	"github.com/lumenary/telemetry/lib/envelope"
	"github.com/lumenary/telemetry/lib/hostclock"
)

// parentProcessEnvVar carries the telemetry process ID of whichever
// process started this one, so a decoder can reconstruct the process
// tree. Init reads it, then overwrites it with this process's own ID
// so any child process it spawns inherits the correct parent.
const parentProcessEnvVar = "LGN_TELEMETRY_PARENT_PROCESS"

// adoptParentProcessID reads parentProcessEnvVar for the caller's own
// parent ID, then sets it to processID for descendants to inherit.
func adoptParentProcessID(processID string) string {
	parent := os.Getenv(parentProcessEnvVar)
	_ = os.Setenv(parentProcessEnvVar, processID)
	return parent
}

// buildProcessEnvelope gathers host identity for the startup envelope.
// The CPU brand string, which the host OS doesn't expose cheaply and
// portably, is left blank rather than guessed; Distro carries
// runtime.GOOS, not a distribution name.
func buildProcessEnvelope(processID string, source hostclock.Source) envelope.ProcessEnvelope {
	parentID := adoptParentProcessID(processID)

	exe, err := os.Executable()
	if err != nil {
		exe = ""
	}

	username := ""
	realname := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
		realname = u.Name
	}

	computer, err := os.Hostname()
	if err != nil {
		computer = ""
	}

	now := source.Now()
	return envelope.ProcessEnvelope{
		ProcessID:       processID,
		ParentProcessID: parentID,
		Exe:             exe,
		Username:        username,
		Realname:        realname,
		Computer:        computer,
		Distro:          runtime.GOOS,
		CPUBrand:        "",
		TscFrequency:    uint64(1 / source.SecondsPerCycle()),
		StartTime:       now,
		StartTicks:      source.Cycles(),
	}
}

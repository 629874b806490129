// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetryconfig loads the configuration a telemetry host
// needs to initialize a Dispatch: buffer sizing, flush cadence, and
// where to ship blocks.
//
// Configuration is loaded from a single YAML file specified by the
// LGN_TELEMETRY_CONFIG environment variable or an explicit path. There
// is no fallback discovery: an unset variable and no explicit path is
// an error, not a default.
package telemetryconfig

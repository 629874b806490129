// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package block implements the sealed event block and long-lived
// event stream: a stream holds exactly one current block, rotates it
// atomically under SwapBlocks, and reports fullness against a
// capacity-minus-padding threshold so a maximum-size record always
// has headroom to land before rotation is forced.
package block

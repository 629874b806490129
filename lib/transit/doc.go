// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package transit implements the heterogeneous append-only event
// queue: a fixed type-list of record shapes packed into one
// contiguous byte buffer with a self-describing wire tag per record.
//
// A []Serializer registered in a fixed order stands in for a sealed
// enum of record variants; each record's leading byte is its index
// into that slice, with a size prefix added for variable-length
// cases.
package transit

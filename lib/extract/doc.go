// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract implements the dependency extraction pass: given a
// sealed block, walk it once and produce the de-duplicated,
// transitively-referenced set of metadata and static string
// dependency records, with string dependencies emitted before the
// metadata record that references them so a linear decoder can
// resolve identities without a second pass.
package extract

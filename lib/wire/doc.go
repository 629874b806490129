// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire holds the codec primitives shared by every record shape
// the core admits into a [transit.Queue]: static-vs-dynamic string
// references and the fixed-size POD encoding helpers the record
// serializers in lib/events build on.
//
// A StringRef's identity is the address of the Go string data it
// points to — stable for the process lifetime for any string literal
// or package-level constant. A DynamicString owns its bytes outright;
// the queue copies them on Push.
package wire

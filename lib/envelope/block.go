// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/lumenary/telemetry/lib/transit"
	"github.com/lumenary/telemetry/lib/wire"
)

// FormatBlock composes a sealed block's wire payload:
//
//	[dynstr: envelope_json]
//	[u32: compressed_dep_size] [compressed_dep_bytes...]
//	[u32: compressed_obj_size] [compressed_obj_bytes...]
func FormatBlock(header BlockHeader, depQueue, objQueue *transit.Queue) ([]byte, error) {
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal block header: %w", err)
	}

	compressedDeps, err := compressFrame(depQueue.Bytes())
	if err != nil {
		return nil, fmt.Errorf("envelope: compress dependency queue: %w", err)
	}
	compressedObjects, err := compressFrame(objQueue.Bytes())
	if err != nil {
		return nil, fmt.Errorf("envelope: compress object queue: %w", err)
	}

	buf := wire.NewDynamicString(string(headerJSON)).Write(nil)
	buf = wire.AppendUint32(buf, uint32(len(compressedDeps)))
	buf = append(buf, compressedDeps...)
	buf = wire.AppendUint32(buf, uint32(len(compressedObjects)))
	buf = append(buf, compressedObjects...)
	return buf, nil
}

// ParsedBlock is the result of decoding a FormatBlock payload back
// into its three parts. DependencyBytes and ObjectBytes are the raw,
// decompressed queue buffers, ready for transit.FromBytes with the
// matching serializer type-list.
type ParsedBlock struct {
	Header          BlockHeader
	DependencyBytes []byte
	ObjectBytes     []byte
}

// ParseBlock reverses FormatBlock.
func ParseBlock(payload []byte) (ParsedBlock, error) {
	headerStr, consumed, err := wire.Read(payload)
	if err != nil {
		return ParsedBlock{}, fmt.Errorf("envelope: read block header: %w", err)
	}
	var header BlockHeader
	if err := json.Unmarshal(headerStr.Bytes, &header); err != nil {
		return ParsedBlock{}, fmt.Errorf("envelope: unmarshal block header: %w", err)
	}
	cursor := consumed

	depBytes, cursor, err := readCompressedSection(payload, cursor)
	if err != nil {
		return ParsedBlock{}, fmt.Errorf("envelope: dependency queue: %w", err)
	}
	objBytes, _, err := readCompressedSection(payload, cursor)
	if err != nil {
		return ParsedBlock{}, fmt.Errorf("envelope: object queue: %w", err)
	}

	return ParsedBlock{Header: header, DependencyBytes: depBytes, ObjectBytes: objBytes}, nil
}

func readCompressedSection(payload []byte, cursor int) ([]byte, int, error) {
	if cursor+4 > len(payload) {
		return nil, 0, fmt.Errorf("truncated size prefix at offset %d", cursor)
	}
	size := int(wire.ReadUint32(payload[cursor:]))
	cursor += 4
	if cursor+size > len(payload) {
		return nil, 0, fmt.Errorf("truncated section at offset %d (need %d bytes)", cursor, size)
	}
	compressed := payload[cursor : cursor+size]
	cursor += size
	decompressed, err := decompressFrame(compressed)
	if err != nil {
		return nil, 0, err
	}
	return decompressed, cursor, nil
}

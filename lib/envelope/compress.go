// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package envelope

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// compressFrame compresses data with the LZ4 frame format — the
// streaming frame container, not the bare block API. A frame carries
// its own length and checksum fields, which is what lets an ingestion
// service decompress a block payload without the emitting process
// having negotiated a shared dictionary or pre-agreed size.
func compressFrame(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("envelope: lz4 frame compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("envelope: lz4 frame compress: close: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressFrame reverses compressFrame.
func decompressFrame(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("envelope: lz4 frame decompress: %w", err)
	}
	return decompressed, nil
}

// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Transport is the host's HTTP client, narrowed to the three PUT
// operations HTTPSink needs. A real implementation wraps
// net/http.Client; tests substitute a fake.
type Transport interface {
	PutJSON(ctx context.Context, url string, body any) error
	PutBinary(ctx context.Context, url string, body []byte) error
}

// httpTransport is the default Transport, backed by net/http.Client.
type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a Transport using client, or
// http.DefaultClient if client is nil.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpTransport{client: client}
}

func (t *httpTransport) PutJSON(ctx context.Context, url string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("sink: marshal json body: %w", err)
	}
	return t.put(ctx, url, "application/json", encoded)
}

func (t *httpTransport) PutBinary(ctx context.Context, url string, body []byte) error {
	return t.put(ctx, url, "application/octet-stream", body)
}

func (t *httpTransport) put(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: PUT %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink: PUT %s: non-2xx response %d", url, resp.StatusCode)
	}
	return nil
}

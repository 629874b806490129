// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumenary/telemetry/lib/clock"
)

const (
	retryInitialBackoff = 1 * time.Second
	retryMaxBackoff     = 30 * time.Second
)

// RetryingTransport wraps a Transport so that a failed PutBinary is
// buffered and retried with exponential backoff instead of being
// dropped — a durable-delivery extension at the sink layer, layered
// on top of the default best-effort behavior. PutJSON is passed
// straight through: the
// process and stream-init envelopes it carries are small and
// re-derivable from process state, so retrying them is not worth the
// complexity.
type RetryingTransport struct {
	next   Transport
	buffer *retryBuffer
	clock  clock.Clock
	logger *slog.Logger

	stop chan struct{}
	done chan struct{}
}

// WithRetryBuffer wraps next with a bounded retry buffer of maxBytes,
// using clk for backoff timing (clock.Real() in production,
// clock.Fake in tests). The returned Transport's background retry
// goroutine runs until Close is called.
func WithRetryBuffer(next Transport, maxBytes int, clk clock.Clock, logger *slog.Logger) *RetryingTransport {
	if logger == nil {
		logger = slog.Default()
	}
	t := &RetryingTransport{
		next:   next,
		buffer: newRetryBuffer(maxBytes),
		clock:  clk,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *RetryingTransport) PutJSON(ctx context.Context, url string, body any) error {
	return t.next.PutJSON(ctx, url, body)
}

func (t *RetryingTransport) PutBinary(ctx context.Context, url string, body []byte) error {
	if err := t.next.PutBinary(ctx, url, body); err != nil {
		t.logger.Warn("telemetry: block PUT failed, buffering for retry", "url", url, "error", err)
		t.buffer.push(url, body)
		return nil
	}
	return nil
}

// Close stops the retry goroutine. Outstanding buffered entries are
// abandoned; it does not block waiting for them the way Shutdown
// drains the primary shipping queue, since durable retry is already
// an opt-in best-effort extension on top of best-effort delivery.
func (t *RetryingTransport) Close() {
	close(t.stop)
	<-t.done
}

// Dropped returns the number of buffered retries evicted by overflow.
func (t *RetryingTransport) Dropped() uint64 { return t.buffer.Dropped() }

func (t *RetryingTransport) run() {
	defer close(t.done)
	backoff := retryInitialBackoff
	ctx := context.Background()

	for {
		select {
		case <-t.buffer.waitForWork():
		case <-t.stop:
			return
		}

		for {
			entry, ok := t.buffer.peek()
			if !ok {
				break
			}
			if err := t.next.PutBinary(ctx, entry.url, entry.body); err != nil {
				t.logger.Warn("telemetry: retry failed, backing off", "url", entry.url, "backoff", backoff, "buffered", t.buffer.Len())
				select {
				case <-t.clock.After(backoff):
				case <-t.stop:
					return
				}
				backoff *= 2
				if backoff > retryMaxBackoff {
					backoff = retryMaxBackoff
				}
				continue
			}
			t.buffer.pop()
			backoff = retryInitialBackoff
		}
	}
}

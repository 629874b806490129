// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"context"
	"sync"
)

// ReentrantMutex admits the same logical call chain twice without
// deadlocking: instrumentation called from inside a stream's rotation
// path (rotation itself can emit spans and logs) needs to re-enter
// the same stream's lock on the same call chain.
//
// Go exposes neither a native reentrant mutex nor a stable goroutine
// identity to build one against, so reentrance here is tracked
// explicitly through context.Context instead of a thread-local
// counter — a context value is the idiomatic Go substitute. The
// holder of the lock stores itself in the context it threads to
// callees; Lock checks for its own marker before blocking.
type ReentrantMutex struct {
	mu sync.Mutex
}

type reentrantMutexKey struct{}

// Lock acquires m unless ctx already carries m's own marker, in which
// case the caller is re-entering its own critical section and Lock
// returns immediately with a no-op unlock. The returned context must
// be threaded into any call that might re-enter this lock; the
// returned func must always be called to release what was actually
// acquired.
func (m *ReentrantMutex) Lock(ctx context.Context) (context.Context, func()) {
	if held, ok := ctx.Value(reentrantMutexKey{}).(*ReentrantMutex); ok && held == m {
		return ctx, func() {}
	}
	m.mu.Lock()
	return context.WithValue(ctx, reentrantMutexKey{}, m), m.mu.Unlock
}

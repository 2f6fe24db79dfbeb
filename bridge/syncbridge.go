// File: bridge/syncbridge.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SyncBridge serves a single contract: run onExecute(payload) on the
// target AsyncContext and block the caller until it has completed,
// returning the result. This is the cross-core request/reply primitive
// among the three async-context bridge patterns; tcpclient.SyncAccessor
// is a thin, typed wrapper over one.
package bridge

import (
	"sync"

	"github.com/asynctcp/asynctcp/api"
	"github.com/asynctcp/asynctcp/concurrency"
)

// ExecuteFunc performs the bridge's domain-specific operation on the
// target context and returns a result code, mirroring onExecute.
type ExecuteFunc func(payload any) uint32

// SyncBridge channels calls from any goroutine through the target
// context's run loop.
type SyncBridge struct {
	ctx *concurrency.AsyncContext

	// mu serializes Execute calls on this instance. A goroutine calling
	// Execute twice while already holding it cannot happen in Go's
	// cooperative-goroutine model, so a plain sync.Mutex is sufficient —
	// no reentrant case to guard against.
	mu sync.Mutex

	onExecute ExecuteFunc
}

// NewSyncBridge builds a bridge targeting ctx. onExecute runs on ctx's
// run-loop goroutine for every Execute call.
func NewSyncBridge(ctx *concurrency.AsyncContext, onExecute ExecuteFunc) *SyncBridge {
	return &SyncBridge{ctx: ctx, onExecute: onExecute}
}

// Execute runs onExecute(payload) on the target context and returns its
// result. Blocks the caller until complete. Returns api.ErrInvalidState if
// the bridge was not constructed with a handler.
func (b *SyncBridge) Execute(payload any) (uint32, error) {
	if b.onExecute == nil {
		return 0, api.ErrInvalidState
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// A same-core fast path is exposed separately by callers that know
	// their own core (tcpclient.SyncAccessor); ExecuteSynchronously itself
	// already avoids a self-deadlock when the caller happens to be on
	// ctx's own run-loop goroutine.
	return b.ctx.ExecuteSynchronously(func(p any) uint32 {
		return b.onExecute(p)
	}, payload), nil
}

// Context returns the bridge's target context, so a caller can implement
// its own same-core fast path (see tcpclient.SyncAccessor).
func (b *SyncBridge) Context() *concurrency.AsyncContext { return b.ctx }

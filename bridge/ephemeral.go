// File: bridge/ephemeral.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EphemeralBridge is a one-shot, delayed callback. It needs no manual
// lifetime management: the closure the AsyncContext schedules for this
// worker's fire time closes over the bridge itself, so the scheduler's
// own pending-worker registration is what keeps the bridge reachable
// until it fires, with or without the caller retaining a reference.
// Close is still exposed so a caller that wants to abort before the
// delay elapses can do so deterministically.
package bridge

import (
	"sync/atomic"
	"time"

	"github.com/asynctcp/asynctcp/api"
	"github.com/asynctcp/asynctcp/concurrency"
	"github.com/asynctcp/asynctcp/internal/logx"
)

// EphemeralBridge fires OnWork exactly once, after a delay set by Run.
type EphemeralBridge struct {
	ctx    *concurrency.AsyncContext
	onWork OnWorkFunc
	fired  atomic.Bool
	handle api.Cancelable
}

// NewEphemeralBridge builds a bridge bound to ctx. The returned bridge
// needs no further retention by the caller: Run is all that is required
// for OnWork to eventually fire.
func NewEphemeralBridge(ctx *concurrency.AsyncContext, onWork OnWorkFunc) *EphemeralBridge {
	return &EphemeralBridge{ctx: ctx, onWork: onWork}
}

// Run schedules the bridge to fire once, delay from now. A registration
// failure is logged and non-fatal: nothing retains the bridge beyond this
// call's own stack frame in that case, so it is simply dropped.
func (b *EphemeralBridge) Run(delay time.Duration) {
	worker := concurrency.NewEphemeralWorker(func(any) uint32 {
		if b.fired.CompareAndSwap(false, true) {
			b.onWork()
		}
		return 0
	}, b)
	handle, err := b.ctx.AddEphemeralWorker(worker, delay)
	if err != nil {
		logx.Warnf("ephemeral bridge registration failed: %v", err)
		return
	}
	b.handle = handle
}

// Close cancels a not-yet-fired bridge. Returns false if it already fired
// or was never scheduled.
func (b *EphemeralBridge) Close() bool {
	if b.handle == nil {
		return false
	}
	return b.handle.Cancel()
}

// Fired reports whether OnWork has run.
func (b *EphemeralBridge) Fired() bool { return b.fired.Load() }

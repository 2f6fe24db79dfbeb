// File: bridge/perpetual.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PerpetualBridge is a registered-once, re-triggerable callback target.
// The TCP client uses one per event kind per client (connected, fin,
// error, received, ack, poll) — see tcpclient.ClientContext.
package bridge

import "github.com/asynctcp/asynctcp/concurrency"

// PerpetualBridge dispatches OnWork on its context's run loop each time
// Run is called, until Close deregisters it.
type PerpetualBridge struct {
	ctx    *concurrency.AsyncContext
	onWork OnWorkFunc
	worker *concurrency.PerpetualWorker
}

// NewPerpetualBridge builds a bridge bound to ctx. Call InitialiseBridge
// before the first Run.
func NewPerpetualBridge(ctx *concurrency.AsyncContext, onWork OnWorkFunc) *PerpetualBridge {
	return &PerpetualBridge{ctx: ctx, onWork: onWork}
}

// InitialiseBridge registers the bridge's worker with its context. Must be
// called exactly once, before Run.
func (b *PerpetualBridge) InitialiseBridge() error {
	b.worker = concurrency.NewPerpetualWorker(func(any) uint32 {
		b.onWork()
		return 0
	}, b)
	return b.ctx.AddPerpetualWorker(b.worker)
}

// Run marks the bridge's worker pending; the context's run loop will
// invoke OnWork in FIFO order among other pending workers.
func (b *PerpetualBridge) Run() {
	b.ctx.SetPending(b.worker)
}

// Close deregisters the bridge's worker. Safe to call once.
func (b *PerpetualBridge) Close() error {
	return b.ctx.RemovePerpetualWorker(b.worker)
}

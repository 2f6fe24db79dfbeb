// File: concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker records carried by the async-context bridge: a PerpetualWorker
// stays registered until explicitly removed and is re-triggered by
// SetPending; an EphemeralWorker fires once, after a delay, and is then
// discarded by its owning AsyncContext.

package concurrency

// HandlerFunc is invoked on the owning AsyncContext's goroutine when a
// worker fires. It receives the opaque payload stored alongside the worker
// and returns a result code.
type HandlerFunc func(payload any) uint32

// PerpetualWorker is a registered-once, re-triggerable work item.
type PerpetualWorker struct {
	handler HandlerFunc
	payload any
}

// NewPerpetualWorker builds a worker bound to handler and payload. The
// caller owns the returned worker and must keep it alive at least until it
// has been removed from its context.
func NewPerpetualWorker(handler HandlerFunc, payload any) *PerpetualWorker {
	return &PerpetualWorker{handler: handler, payload: payload}
}

// EphemeralWorker is a one-shot, time-deferred work item. It is not reused;
// a new instance is created for each Run call.
type EphemeralWorker struct {
	handler HandlerFunc
	payload any
}

// NewEphemeralWorker builds a one-shot worker bound to handler and payload.
func NewEphemeralWorker(handler HandlerFunc, payload any) *EphemeralWorker {
	return &EphemeralWorker{handler: handler, payload: payload}
}

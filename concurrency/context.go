// File: concurrency/context.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// AsyncContext is the Go rendition of the cooperative, single-threaded
// scheduler bound to one networking core that the async-tcp bridge is
// built on top of. Each AsyncContext owns exactly one goroutine — its
// "run loop" — which is the only goroutine ever allowed to invoke a
// worker's handler; every other goroutine (the other core, or any
// goroutine dispatching from outside this context) reaches the context
// only through AddPerpetualWorker/SetPending/AddEphemeralWorker, all of
// which serialize their list mutation behind a short critical section,
// or through ExecuteSynchronously, which blocks the caller until the run
// loop has handled the request.
//
// AsyncContext drains a FIFO of pending workers (github.com/eapache/queue)
// so that perpetual and ephemeral workers share one dispatch path and one
// ordering guarantee.

package concurrency

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/asynctcp/asynctcp/api"
	"github.com/asynctcp/asynctcp/internal/goid"
	"github.com/asynctcp/asynctcp/internal/logx"
)

// CoreID names one of the two cores hosting an AsyncContext.
type CoreID int

// runnable is satisfied by both worker kinds so they can share one pending
// FIFO.
type runnable interface {
	fire() uint32
}

func (w *PerpetualWorker) fire() uint32 { return w.handler(w.payload) }
func (w *EphemeralWorker) fire() uint32 { return w.handler(w.payload) }

// AsyncContext is a cooperative, single-threaded scheduler for one core.
type AsyncContext struct {
	core CoreID

	mu        sync.Mutex
	perpetual map[*PerpetualWorker]struct{}
	pending   *queue.Queue

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	running  atomic.Bool
	ownerGID atomic.Uint64

	affinity api.Affinity
}

// NewAsyncContext builds a context bound to the given logical core. Call
// Run on a dedicated goroutine to start dispatching.
func NewAsyncContext(core CoreID) *AsyncContext {
	return &AsyncContext{
		core:      core,
		perpetual: make(map[*PerpetualWorker]struct{}),
		pending:   queue.New(),
		wake:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// NewPinnedAsyncContext builds a context that pins its run-loop goroutine
// to CPU core via affinity as the first step of Run, modeling the two
// async contexts as bound to distinct networking cores rather than just
// distinct logical labels.
func NewPinnedAsyncContext(core CoreID, affinity api.Affinity) *AsyncContext {
	c := NewAsyncContext(core)
	c.affinity = affinity
	return c
}

// Core returns the logical core this context represents.
func (c *AsyncContext) Core() CoreID { return c.core }

// IsCurrentGoroutine reports whether the calling goroutine is this
// context's own run-loop goroutine — the Go stand-in for "already running
// on this core" used by SyncBridge's same-core fast path.
func (c *AsyncContext) IsCurrentGoroutine() bool {
	return c.running.Load() && c.ownerGID.Load() == goid.Current()
}

// AcquireLock and ReleaseLock expose the lock that guards the context's
// worker lists. Nothing in this module calls them; the SyncAccessor fast
// path runs without it. The lock is non-recursive: a holder that then
// calls AddPerpetualWorker, RemovePerpetualWorker or SetPending deadlocks.
func (c *AsyncContext) AcquireLock() { c.mu.Lock() }
func (c *AsyncContext) ReleaseLock() { c.mu.Unlock() }

// AddPerpetualWorker registers w with the context. Safe from any goroutine.
func (c *AsyncContext) AddPerpetualWorker(w *PerpetualWorker) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosedLocked() {
		return ErrContextClosed
	}
	if _, exists := c.perpetual[w]; exists {
		return ErrWorkerAlreadyRegistered
	}
	c.perpetual[w] = struct{}{}
	return nil
}

// RemovePerpetualWorker deregisters w. Any already-pending fire for w is
// silently dropped when the run loop reaches it, instead of invoking a
// handler whose owner no longer wants callbacks.
func (c *AsyncContext) RemovePerpetualWorker(w *PerpetualWorker) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.perpetual[w]; !exists {
		return ErrWorkerNotRegistered
	}
	delete(c.perpetual, w)
	return nil
}

// SetPending marks w ready to run; the run loop will invoke it in FIFO
// order among all currently pending workers. No-op if w is not registered.
func (c *AsyncContext) SetPending(w *PerpetualWorker) {
	c.mu.Lock()
	_, registered := c.perpetual[w]
	if registered {
		c.pending.Add(w)
	}
	c.mu.Unlock()
	if registered {
		c.signalWake()
	}
}

// AddEphemeralWorker schedules w to fire once, after delay, on the run-loop
// goroutine. The returned Cancelable lets the caller abort before it fires;
// canceling after it has fired is a no-op that returns false.
func (c *AsyncContext) AddEphemeralWorker(w *EphemeralWorker, delay time.Duration) (api.Cancelable, error) {
	c.mu.Lock()
	closed := c.isClosedLocked()
	c.mu.Unlock()
	if closed {
		return nil, ErrContextClosed
	}
	h := &ephemeralHandle{done: make(chan struct{})}
	fire := NewEphemeralWorker(func(p any) uint32 {
		r := w.handler(p)
		close(h.done)
		return r
	}, w.payload)
	h.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.pending.Add(fire)
		c.mu.Unlock()
		c.signalWake()
	})
	return h, nil
}

// ephemeralHandle implements api.Cancelable for a scheduled EphemeralWorker.
type ephemeralHandle struct {
	timer *time.Timer
	done  chan struct{}
}

var _ api.Cancelable = (*ephemeralHandle)(nil)

func (h *ephemeralHandle) Cancel() bool {
	if !h.timer.Stop() {
		return false
	}
	close(h.done)
	return true
}

func (h *ephemeralHandle) Done() <-chan struct{} { return h.done }

// ExecuteSynchronously runs handler(payload) on this context's run-loop
// goroutine and blocks the caller until it completes, returning its result.
// Legal from any goroutine, including this context's own run loop (in
// which case it runs inline to avoid a self-deadlock — see
// IsCurrentGoroutine).
func (c *AsyncContext) ExecuteSynchronously(handler HandlerFunc, payload any) uint32 {
	if c.IsCurrentGoroutine() {
		return handler(payload)
	}

	result := make(chan uint32, 1)
	w := NewPerpetualWorker(func(p any) uint32 {
		r := handler(p)
		result <- r
		return r
	}, payload)

	c.mu.Lock()
	c.perpetual[w] = struct{}{}
	c.pending.Add(w)
	c.mu.Unlock()
	c.signalWake()

	var r uint32
	select {
	case r = <-result:
	case <-c.done:
		// Run exited (Stop raced us) before draining this worker. Prefer
		// a result that slipped in at the same instant; otherwise the
		// worker will never fire, so give up rather than block forever.
		select {
		case r = <-result:
		default:
			r = 0
		}
	}

	c.mu.Lock()
	delete(c.perpetual, w)
	c.mu.Unlock()

	return r
}

// WaitUntil cooperatively yields the run-loop goroutine until t. Must only
// be called from within the run loop: this suspension point only ever
// appears inside the owning context.
func (c *AsyncContext) WaitUntil(t time.Time) {
	if d := time.Until(t); d > 0 {
		time.Sleep(d)
	}
}

// Run drains pending workers in FIFO order until Stop is called. It must
// run on its own dedicated goroutine; the goroutine that calls Run becomes
// this context's networking-core stand-in.
func (c *AsyncContext) Run() {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.ownerGID.Store(goid.Current())
	if c.affinity != nil {
		if err := c.affinity.Pin(int(c.core)); err != nil {
			logx.Warnf("concurrency: failed to pin core %d: %v", c.core, err)
		}
	}
	defer func() {
		close(c.done)
		c.running.Store(false)
	}()

	for {
		select {
		case <-c.quit:
			return
		case <-c.wake:
		}
		for {
			c.mu.Lock()
			if c.pending.Length() == 0 {
				c.mu.Unlock()
				break
			}
			raw := c.pending.Peek()
			c.pending.Remove()
			c.mu.Unlock()

			item := raw.(runnable)
			if pw, ok := item.(*PerpetualWorker); ok {
				c.mu.Lock()
				_, registered := c.perpetual[pw]
				c.mu.Unlock()
				if !registered {
					continue
				}
			}
			item.fire()
		}
	}
}

// Stop signals the run loop to exit and waits for it, if it was running.
func (c *AsyncContext) Stop() {
	select {
	case <-c.quit:
	default:
		close(c.quit)
	}
	if c.running.Load() {
		<-c.done
	}
}

func (c *AsyncContext) signalWake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *AsyncContext) isClosedLocked() bool {
	select {
	case <-c.quit:
		return true
	default:
		return false
	}
}

// File: netio/txwriter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TxWriter copies a caller's buffer once, then drives it out in
// stack-sized chunks across however many sent() acknowledgements it
// takes, coalescing chunks on every callback until the send buffer or
// MSS runs out. Two completion policies exist because "done" means two
// different things to two different callers: Acked waits for the peer's
// ACK of every byte, Enqueued is satisfied the moment the stack has
// accepted the last chunk.
//
// The writer itself is stack-flag-agnostic: "more"/"copy" flag policy is
// entirely the configured WriteChunkFunc's call, not this package's.
//
// Single-writer on the networking core only; not safe from another core.
package netio

import (
	"time"

	"github.com/asynctcp/asynctcp/internal/logx"
	"github.com/asynctcp/asynctcp/stack"
)

// CompletionMode selects when a write is considered finished. Fixed for
// the lifetime of a TxWriter: there is no setter, since switching modes
// mid-write would leave queued/acked bookkeeping ambiguous.
type CompletionMode int

const (
	// CompletionAcked waits for the peer to acknowledge every byte.
	CompletionAcked CompletionMode = iota
	// CompletionEnqueued is satisfied once the stack has accepted the
	// last chunk, regardless of acknowledgement.
	CompletionEnqueued
)

// defaultStallTimeout is how long a write may go without queue or ACK
// progress before TxWriter gives up on it, absent an explicit override.
const defaultStallTimeout = 2 * time.Second

// backpressureHigh and backpressureLow are the should/can-release
// watermarks, expressed as a fraction of (in-flight + free) occupied by
// in-flight bytes. Advisory only: TxWriter never blocks on its own.
const (
	backpressureHighNum, backpressureHighDen = 70, 100
	backpressureLowNum, backpressureLowDen   = 50, 100
)

// WriteChunkFunc issues one chunk to the stack. TxWriter never chooses
// stack.WriteFlags itself — more/copy policy is entirely this callback's
// decision, typically bottoming out in a direct PCB.Write call.
type WriteChunkFunc func(chunk []byte) (queued int, err error)

// TxWriter owns at most one in-flight write at a time.
type TxWriter struct {
	_ noCopy

	pcb       stack.PCB
	mode      CompletionMode
	writeFunc WriteChunkFunc
	onDone    func(err error)
	timeout   time.Duration

	buf    []byte
	total  int
	queued int
	acked  int

	writeStart   time.Time
	lastProgress time.Time
	inProgress   bool
}

// NewTxWriter builds a writer bound to pcb, using mode for completion and
// writeFunc to issue each chunk. onDone, if non-nil, fires once per write
// (success, error, or timeout) after the writer's state has already been
// reset. timeout of 0 uses defaultStallTimeout.
func NewTxWriter(pcb stack.PCB, mode CompletionMode, writeFunc WriteChunkFunc, onDone func(err error), timeout time.Duration) *TxWriter {
	if timeout <= 0 {
		timeout = defaultStallTimeout
	}
	return &TxWriter{pcb: pcb, mode: mode, writeFunc: writeFunc, onDone: onDone, timeout: timeout}
}

// IsWriteInProgress reports whether a write is currently in flight.
func (w *TxWriter) IsWriteInProgress() bool { return w.inProgress }

// Write starts a new write. inProgress is the only write-in-progress
// guard: a call while a previous write is unfinished returns
// ErrWriteInProgress rather than panicking, since this is a boundary a
// caller could plausibly hit under a bug and the owning application may
// want to report it.
func (w *TxWriter) Write(data []byte) error {
	if w.inProgress {
		return ErrWriteInProgress
	}
	if len(data) == 0 {
		return ErrEmptyWrite
	}

	// Copy once: the caller's slice is not guaranteed to outlive the
	// multi-chunk transmission.
	w.buf = append(make([]byte, 0, len(data)), data...)
	w.total = len(w.buf)
	w.queued = 0
	w.acked = 0
	w.writeStart = time.Now()
	w.lastProgress = w.writeStart
	w.inProgress = true

	w.sendNextChunk()
	return nil
}

// sendNextChunk coalesces as many chunks as the send buffer and MSS
// allow, stopping when either runs out or (Enqueued mode) the write is
// fully queued.
func (w *TxWriter) sendNextChunk() {
	if !w.inProgress {
		return
	}

	for {
		remaining := w.total - w.queued
		if remaining == 0 {
			return
		}

		free := w.pcb.SendBufferFree()
		chunk := remaining
		if free < chunk {
			chunk = free
		}
		if mss := w.pcb.MSS(); mss > 0 && mss < chunk {
			chunk = mss
		}
		if chunk <= 0 {
			return
		}

		n, err := w.writeFunc(w.buf[w.queued : w.queued+chunk])
		if err != nil {
			w.fail(err)
			return
		}

		w.queued += n
		w.lastProgress = time.Now()

		if w.mode == CompletionEnqueued && w.queued == w.total {
			w.complete(nil)
			return
		}
		if n < chunk {
			// Stack accepted less than offered; wait for more room.
			return
		}
	}
}

// OnAck is the client's sent() forwarding target (stack.SentFunc). It is
// a protocol violation for an ACK to arrive with no write in progress;
// such an ACK is logged and dropped rather than panicking, since a
// stray late ACK from a just-completed or just-failed write is a
// plausible race, not a programming error.
func (w *TxWriter) OnAck(ackedLen int) {
	if !w.inProgress {
		logx.Warnf("ack received with no write in progress: %d bytes", ackedLen)
		return
	}

	w.acked += ackedLen
	w.lastProgress = time.Now()

	if w.acked > w.total {
		logx.Warnf("acked %d exceeds total %d, clamping", w.acked, w.total)
		w.acked = w.total
	}

	if w.mode == CompletionAcked && w.acked == w.total {
		w.complete(nil)
		return
	}
	if w.queued < w.total {
		w.sendNextChunk()
	}
}

// OnError unconditionally completes the in-flight write with err,
// releasing the owned buffer and resetting counters.
func (w *TxWriter) OnError(err error) {
	if !w.inProgress {
		return
	}
	w.complete(err)
}

// HasTimedOut reports whether the in-flight write has gone the stall
// timeout (w.timeout) without queue or ACK progress.
func (w *TxWriter) HasTimedOut() bool {
	if !w.inProgress {
		return false
	}
	return time.Since(w.lastProgress) >= w.timeout
}

// OnWriteTimeout abandons a stalled write. The client's poll callback
// calls HasTimedOut and, on true, this.
func (w *TxWriter) OnWriteTimeout() {
	w.fail(ErrWriteStalled)
}

// InFlight returns the bytes queued to the stack but not yet acked.
func (w *TxWriter) InFlight() int { return w.queued - w.acked }

// ShouldBackpressure reports whether in-flight bytes occupy at least 70%
// of (in-flight + currently free) send-buffer space. Advisory only.
func (w *TxWriter) ShouldBackpressure() bool {
	inFlight := w.InFlight()
	if inFlight <= 0 {
		return false
	}
	free := w.pcb.SendBufferFree()
	denom := inFlight + free
	if denom <= 0 {
		return false
	}
	return inFlight*backpressureHighDen >= backpressureHighNum*denom
}

// CanReleaseBackpressure reports whether in-flight bytes have fallen to
// 50% or below of (in-flight + currently free) send-buffer space.
func (w *TxWriter) CanReleaseBackpressure() bool {
	inFlight := w.InFlight()
	if inFlight <= 0 {
		return true
	}
	free := w.pcb.SendBufferFree()
	denom := inFlight + free
	if denom <= 0 {
		return true
	}
	return inFlight*backpressureLowDen <= backpressureLowNum*denom
}

func (w *TxWriter) fail(err error) { w.complete(err) }

// complete clears the owned buffer, zeros counters and timestamps, and
// clears inProgress, then calls onDone with err if one was supplied.
func (w *TxWriter) complete(err error) {
	w.buf = nil
	w.total = 0
	w.queued = 0
	w.acked = 0
	w.writeStart = time.Time{}
	w.lastProgress = time.Time{}
	w.inProgress = false

	if w.onDone != nil {
		w.onDone(err)
	}
}

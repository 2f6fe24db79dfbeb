// File: netio/rxbuffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RxBuffer owns the head of an inbound segment chain and exposes a
// cursor-style peek/consume/ack API over it: cursor-based, zero-copy-
// friendly consumption over a segmented packet chain, with flow-control
// feedback to the stack.
//
// Chain ownership/append, the idempotent re-delivery guard, and the
// flush-before-FIN ordering all carry over from lwIP's own receive
// callback contract.
//
// Single-writer/single-reader on the networking core only; not safe from
// an ISR or another core.
package netio

import "github.com/asynctcp/asynctcp/stack"

// maxRecvedChunk is the stack's 16-bit width for a single flow-control
// acknowledgement.
const maxRecvedChunk = 65535

// RxBuffer owns a chain of received segments and a read cursor into the
// head segment.
type RxBuffer struct {
	_ noCopy

	pcb stack.PCB

	head       *stack.Segment
	offset     int
	finPending bool

	onData func()
	onFin  func()
}

// NewRxBuffer builds an empty buffer bound to pcb, used for flow-control
// acknowledgements.
func NewRxBuffer(pcb stack.PCB) *RxBuffer {
	return &RxBuffer{pcb: pcb}
}

// SetOnReceivedCallback registers the data-arrived notification.
func (b *RxBuffer) SetOnReceivedCallback(cb func()) { b.onData = cb }

// SetOnFinCallback registers the FIN notification.
func (b *RxBuffer) SetOnFinCallback(cb func()) { b.onFin = cb }

// ReceiveCallback is the stack's tcp_recv trampoline target (stack.RecvFunc).
//
//   - recvErr != nil: nothing to own; report abort.
//   - chain == nil: FIN. Any data already buffered is flushed to the
//     data-arrived callback first; the FIN callback fires only once the
//     chain has fully drained (tracked via finPending), so a FIN that
//     races with unread bytes is never lost.
//   - otherwise: append to an existing chain, or take ownership of a new
//     one. Re-delivery of a chain we already own is a no-op beyond
//     re-notifying, guarding against a stack retry handing back the same
//     segment.
func (b *RxBuffer) ReceiveCallback(chain *stack.Segment, recvErr error) stack.Disposition {
	if recvErr != nil {
		return stack.DispositionAbort
	}

	if chain == nil {
		if b.head != nil {
			b.finPending = true
			b.notifyData()
			return stack.DispositionOK
		}
		b.notifyFin()
		return stack.DispositionAbort
	}

	if chain == b.head {
		b.notifyData()
		return stack.DispositionOK
	}

	if b.head != nil {
		b.head.Concat(chain)
	} else {
		b.head = chain
		b.offset = 0
	}
	b.notifyData()
	return stack.DispositionOK
}

// Peek returns the byte at the cursor, or 0 if the buffer is empty.
func (b *RxBuffer) Peek() byte {
	if b.head == nil {
		return 0
	}
	return b.head.Data[b.offset]
}

// PeekAvailable returns bytes readable in the current segment only.
func (b *RxBuffer) PeekAvailable() int {
	if b.head == nil {
		return 0
	}
	return len(b.head.Data) - b.offset
}

// PeekBuffer returns a slice valid until the next Consume or Reset, or nil
// when empty.
func (b *RxBuffer) PeekBuffer() []byte {
	if b.head == nil {
		return nil
	}
	return b.head.Data[b.offset:]
}

// Consume advances the cursor by n bytes, freeing exhausted segments along
// the way, and acknowledges exactly n bytes to the stack's flow control in
// 16-bit-limited chunks. n == 0 is a no-op: no stack notification.
//
// The fast path (n within the current segment) and the slow path (n
// crosses segment boundaries) are unified into one loop below.
func (b *RxBuffer) Consume(n int) {
	if n <= 0 {
		return
	}

	consumed := 0
	for n > 0 && b.head != nil {
		avail := len(b.head.Data) - b.offset
		if n < avail {
			b.offset += n
			consumed += n
			n = 0
			continue
		}
		consumed += avail
		n -= avail
		b.head = b.head.Next
		b.offset = 0
	}

	if consumed > 0 {
		b.ackChunked(consumed)
	}

	if b.head == nil && b.finPending {
		b.finPending = false
		b.notifyFin()
	}
}

// Reset frees the current chain and clears the cursor, as on connection
// teardown.
func (b *RxBuffer) Reset() {
	b.head = nil
	b.offset = 0
	b.finPending = false
}

func (b *RxBuffer) ackChunked(n int) {
	if b.pcb == nil {
		return
	}
	for n > 0 {
		chunk := n
		if chunk > maxRecvedChunk {
			chunk = maxRecvedChunk
		}
		b.pcb.Recved(chunk)
		n -= chunk
	}
}

func (b *RxBuffer) notifyData() {
	if b.onData != nil {
		b.onData()
	}
}

func (b *RxBuffer) notifyFin() {
	if b.onFin != nil {
		b.onFin()
	}
}

var _ stack.RecvFunc = (*RxBuffer)(nil).ReceiveCallback

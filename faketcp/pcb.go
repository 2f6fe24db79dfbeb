// File: faketcp/pcb.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package faketcp is a scriptable fake of the external network stack
// (stack.PCB/stack.Factory): configurable errors, captured sent buffers,
// injectable recv data, a byte-stream PCB with a send-buffer/MSS model,
// and a Deliver* surface that stands in for what lwIP would call on its
// own.
//
// Not safe for concurrent use from multiple goroutines — same contract
// as a real PCB, single-core-only.
package faketcp

import (
	"fmt"

	"github.com/asynctcp/asynctcp/stack"
)

// ErrClosed is returned by operations attempted on a closed PCB.
var ErrClosed = fmt.Errorf("faketcp: pcb is closed")

// PCB is a scriptable fake implementation of stack.PCB.
type PCB struct {
	mss           int
	sendBufferCap int
	inFlight      int
	noDelay       bool
	state         stack.State
	localPort     int

	connectErr error
	writeErr   error

	sentChunks  [][]byte
	recvedTotal int
	handlers    stack.Handlers
	closed      bool
	aborted     bool
}

// NewPCB builds a fake PCB with the given MSS and send-buffer capacity.
func NewPCB(mss, sendBufferCap int) *PCB {
	return &PCB{mss: mss, sendBufferCap: sendBufferCap, state: stack.StateNone}
}

// SetConnectError makes the next Connect call fail with err.
func (p *PCB) SetConnectError(err error) { p.connectErr = err }

// SetWriteError makes every subsequent Write call fail with err.
func (p *PCB) SetWriteError(err error) { p.writeErr = err }

// BindLocalPort implements the optional local-port-binder contract
// tcpclient checks for.
func (p *PCB) BindLocalPort(port int) error {
	p.localPort = port
	return nil
}

// LocalPort returns the bound local port, or 0 if none was bound.
func (p *PCB) LocalPort() int { return p.localPort }

// Connect implements stack.PCB. Completion is reported synchronously
// through the registered OnConnected handler, matching how a test
// drives this fake deterministically rather than asynchronously like a
// real stack.
func (p *PCB) Connect(ip string, port int) error {
	if p.connectErr != nil {
		err := p.connectErr
		if p.handlers.OnConnected != nil {
			p.handlers.OnConnected(err)
		}
		return err
	}
	p.state = stack.StateConnected
	if p.handlers.OnConnected != nil {
		p.handlers.OnConnected(nil)
	}
	return nil
}

// Write implements stack.PCB: records the chunk and increments the
// simulated in-flight byte count against SendBufferFree.
func (p *PCB) Write(data []byte, flags stack.WriteFlags) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if p.writeErr != nil {
		return 0, p.writeErr
	}

	cp := append([]byte(nil), data...)
	p.sentChunks = append(p.sentChunks, cp)
	p.inFlight += len(cp)
	return len(cp), nil
}

// SendBufferFree implements stack.PCB.
func (p *PCB) SendBufferFree() int {
	free := p.sendBufferCap - p.inFlight
	if free < 0 {
		return 0
	}
	return free
}

// MSS implements stack.PCB.
func (p *PCB) MSS() int { return p.mss }

// SetNoDelay implements stack.PCB.
func (p *PCB) SetNoDelay(noDelay bool) { p.noDelay = noDelay }

// NoDelay reports the last value passed to SetNoDelay, for assertions.
func (p *PCB) NoDelay() bool { return p.noDelay }

// SetHandlers implements stack.PCB.
func (p *PCB) SetHandlers(h stack.Handlers) { p.handlers = h }

// Recved implements stack.PCB, recording the acknowledged byte count
// for test assertions.
func (p *PCB) Recved(n int) {
	p.recvedTotal += n
}

// RecvedTotal returns the cumulative bytes acknowledged via Recved.
func (p *PCB) RecvedTotal() int { return p.recvedTotal }

// Close implements stack.PCB.
func (p *PCB) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.state = stack.StateClosed
	return nil
}

// Abort implements stack.PCB.
func (p *PCB) Abort() {
	p.aborted = true
	p.closed = true
	p.state = stack.StateClosed
}

// Aborted reports whether Abort was called.
func (p *PCB) Aborted() bool { return p.aborted }

// State implements stack.PCB.
func (p *PCB) State() stack.State { return p.state }

// SentChunks returns every chunk handed to Write so far, for assertions.
func (p *PCB) SentChunks() [][]byte {
	out := make([][]byte, len(p.sentChunks))
	copy(out, p.sentChunks)
	return out
}

// DeliverSent simulates the stack acknowledging ackedLen bytes: frees
// that much simulated send-buffer occupancy and forwards to OnSent.
func (p *PCB) DeliverSent(ackedLen int) {
	p.inFlight -= ackedLen
	if p.inFlight < 0 {
		p.inFlight = 0
	}
	if p.handlers.OnSent != nil {
		p.handlers.OnSent(ackedLen)
	}
}

// DeliverRecv simulates an inbound chain (or, with chain == nil, a FIN).
func (p *PCB) DeliverRecv(chain *stack.Segment, err error) stack.Disposition {
	if p.handlers.OnRecv == nil {
		return stack.DispositionOK
	}
	return p.handlers.OnRecv(chain, err)
}

// DeliverError simulates a stack-level error.
func (p *PCB) DeliverError(err error) {
	if p.handlers.OnError != nil {
		p.handlers.OnError(err)
	}
}

// DeliverPoll simulates one poll tick.
func (p *PCB) DeliverPoll() {
	if p.handlers.OnPoll != nil {
		p.handlers.OnPoll()
	}
}

// File: tcpclient/clientcontext.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ClientContext owns one connection's PCB, its RxBuffer and TxWriter, and
// the fixed set of six bridges that hand inbound events off to
// application callbacks. It is the Go analogue of the thing lwIP's `arg`
// slot points at: own the low-level handle, expose typed setters.
//
// Owned exclusively by the TcpClient that created it, for its lifetime;
// mutated only from the owning AsyncContext's run-loop goroutine.
package tcpclient

import (
	"github.com/asynctcp/asynctcp/api"
	"github.com/asynctcp/asynctcp/bridge"
	"github.com/asynctcp/asynctcp/concurrency"
	"github.com/asynctcp/asynctcp/netio"
	"github.com/asynctcp/asynctcp/stack"
)

// localPortBinder is implemented by PCBs that support binding to a
// specific local port before connect. Optional: a PCB that doesn't
// implement it simply never gets a bound local port, for stacks that
// pick ephemeral ports themselves.
type localPortBinder interface {
	BindLocalPort(port int) error
}

// ClientContext adapts the five lwIP-style callbacks into RxBuffer/TxWriter
// bookkeeping (always inline, since that is core state-machine work
// already running on the networking core) plus a bridge dispatch per
// event kind to hand off to application code — the client never executes
// application code inline from a lwIP callback.
type ClientContext struct {
	pcb stack.PCB

	rx *netio.RxBuffer
	tx *netio.TxWriter

	connectedBridge *bridge.PerpetualBridge
	errorBridge     *bridge.PerpetualBridge
	dataBridge      *bridge.PerpetualBridge
	finBridge       *bridge.PerpetualBridge
	sentBridge      *bridge.PerpetualBridge
	pollBridge      *bridge.PerpetualBridge

	onConnected func(err error)
	onError     func(err error)
	onData      func()
	onFin       func()
	onSent      func(ackedLen int)
	onPoll      func()

	lastConnErr error
	lastErr     error
	lastSentLen int
}

// NewClientContext builds a context around pcb, wiring RxBuffer/TxWriter
// and the six bridges onto actx. SetHandlers is called on pcb before
// return, with arg implicitly this context.
func NewClientContext(actx *concurrency.AsyncContext, pcb stack.PCB, cfg ClientConfig, writeFunc netio.WriteChunkFunc) *ClientContext {
	c := &ClientContext{pcb: pcb}

	c.rx = netio.NewRxBuffer(pcb)
	c.rx.SetOnReceivedCallback(func() { c.dataBridge.Run() })
	c.rx.SetOnFinCallback(func() {
		c.tx.OnError(api.NewStackError(api.StackConnectionClosed))
		c.finBridge.Run()
	})

	c.tx = netio.NewTxWriter(pcb, cfg.WriteMode, writeFunc, nil, cfg.StallTimeout)

	c.connectedBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnConnected() })
	c.errorBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnError() })
	c.dataBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnData() })
	c.finBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnFin() })
	c.sentBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnSent() })
	c.pollBridge = bridge.NewPerpetualBridge(actx, func() { c.runOnPoll() })

	for _, b := range []*bridge.PerpetualBridge{
		c.connectedBridge, c.errorBridge, c.dataBridge, c.finBridge, c.sentBridge, c.pollBridge,
	} {
		_ = b.InitialiseBridge()
	}

	pcb.SetHandlers(stack.Handlers{
		OnConnected: c.handleConnected,
		OnRecv:      c.handleRecv,
		OnSent:      c.handleSent,
		OnError:     c.handleError,
		OnPoll:      c.handlePoll,
	})

	return c
}

// SetOnConnected installs the application's connected hook.
func (c *ClientContext) SetOnConnected(cb func(error)) { c.onConnected = cb }

// SetOnError installs the application's error hook.
func (c *ClientContext) SetOnError(cb func(error)) { c.onError = cb }

// SetOnData installs the application's data-arrived hook.
func (c *ClientContext) SetOnData(cb func()) { c.onData = cb }

// SetOnFin installs the application's FIN hook.
func (c *ClientContext) SetOnFin(cb func()) { c.onFin = cb }

// SetOnSent installs the application's sent/ACK hook.
func (c *ClientContext) SetOnSent(cb func(int)) { c.onSent = cb }

// SetOnPoll installs the application's poll hook.
func (c *ClientContext) SetOnPoll(cb func()) { c.onPoll = cb }

// RxBuffer exposes the receive cursor to the application (peek/consume).
func (c *ClientContext) RxBuffer() *netio.RxBuffer { return c.rx }

// Write starts a new write, mapping the writer's internal sentinel
// errors onto the public error domain.
func (c *ClientContext) Write(data []byte) error {
	if c.pcb == nil {
		return api.ErrInvalidState
	}
	switch err := c.tx.Write(data); err {
	case nil:
		return nil
	case netio.ErrWriteInProgress:
		return api.ErrResourceInUse
	case netio.ErrEmptyWrite:
		return api.ErrInvalidArgument
	default:
		return err
	}
}

// IsWriteInProgress reports whether a write is currently in flight.
func (c *ClientContext) IsWriteInProgress() bool { return c.tx.IsWriteInProgress() }

// State reports the connection's state, or StateClosed once the PCB has
// been invalidated.
func (c *ClientContext) State() stack.State {
	if c.pcb == nil {
		return stack.StateClosed
	}
	return c.pcb.State()
}

// Close issues the stack's close, falling back to abort on failure, and
// releases any pending RX chain before nulling the PCB pointer.
func (c *ClientContext) Close() error {
	if c.pcb == nil {
		return nil
	}
	if err := c.pcb.Close(); err != nil {
		c.pcb.Abort()
	}
	c.rx.Reset()
	c.pcb = nil
	return nil
}

func (c *ClientContext) handleConnected(err error) {
	if c.pcb == nil {
		return
	}
	c.lastConnErr = err
	c.connectedBridge.Run()
}

func (c *ClientContext) handleError(err error) {
	if c.pcb == nil {
		return
	}
	c.lastErr = err
	c.tx.OnError(err)
	c.pcb = nil
	c.errorBridge.Run()
}

func (c *ClientContext) handleRecv(chain *stack.Segment, err error) stack.Disposition {
	if c.pcb == nil {
		return stack.DispositionOK
	}
	return c.rx.ReceiveCallback(chain, err)
}

func (c *ClientContext) handleSent(ackedLen int) {
	if c.pcb == nil {
		return
	}
	c.tx.OnAck(ackedLen)
	c.lastSentLen = ackedLen
	c.sentBridge.Run()
}

func (c *ClientContext) handlePoll() {
	if c.pcb == nil {
		return
	}
	if c.tx.HasTimedOut() {
		c.tx.OnWriteTimeout()
	}
	c.pollBridge.Run()
}

func (c *ClientContext) runOnConnected() {
	if c.onConnected != nil {
		c.onConnected(c.lastConnErr)
	}
}

func (c *ClientContext) runOnError() {
	if c.onError != nil {
		c.onError(c.lastErr)
	}
}

func (c *ClientContext) runOnData() {
	if c.onData != nil {
		c.onData()
	}
}

func (c *ClientContext) runOnFin() {
	if c.onFin != nil {
		c.onFin()
	}
}

func (c *ClientContext) runOnSent() {
	if c.onSent != nil {
		c.onSent(c.lastSentLen)
	}
}

func (c *ClientContext) runOnPoll() {
	if c.onPoll != nil {
		c.onPoll()
	}
}

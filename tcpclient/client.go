// File: tcpclient/client.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TcpClient is the public handle applications hold: connect/write/stop/
// shutdown, plus the six settable event hooks. A typed config struct in,
// callback-driven events out.
package tcpclient

import (
	"github.com/asynctcp/asynctcp/api"
	"github.com/asynctcp/asynctcp/concurrency"
	"github.com/asynctcp/asynctcp/stack"
)

// nextLocalPort is a process-wide counter seeded by the first client
// config with LocalPortStart > 0. Deliberately not atomic: every
// assignment happens inside the owning AsyncContext's goroutine.
var nextLocalPort int

// TcpClient is a single TCP connection's application-facing handle.
type TcpClient struct {
	actx     *concurrency.AsyncContext
	factory  stack.Factory
	cfg      ClientConfig
	accessor *SyncAccessor

	clientCtx *ClientContext

	onConnected func(error)
	onError     func(error)
	onData      func()
	onFin       func()
	onSent      func(int)
	onPoll      func()
}

// NewTcpClient builds a client that allocates PCBs from factory and runs
// its state machine on actx.
func NewTcpClient(actx *concurrency.AsyncContext, factory stack.Factory, cfg ClientConfig) *TcpClient {
	c := &TcpClient{actx: actx, factory: factory, cfg: cfg}
	c.accessor = NewSyncAccessor(actx, c)
	return c
}

// SetOnConnected replaces the connected bridge slot.
func (c *TcpClient) SetOnConnected(cb func(error)) {
	c.onConnected = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnConnected(cb)
	}
}

// SetOnError replaces the error bridge slot.
func (c *TcpClient) SetOnError(cb func(error)) {
	c.onError = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnError(cb)
	}
}

// SetOnData replaces the data-arrived bridge slot.
func (c *TcpClient) SetOnData(cb func()) {
	c.onData = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnData(cb)
	}
}

// SetOnFin replaces the FIN bridge slot.
func (c *TcpClient) SetOnFin(cb func()) {
	c.onFin = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnFin(cb)
	}
}

// SetOnSent replaces the sent/ACK bridge slot.
func (c *TcpClient) SetOnSent(cb func(int)) {
	c.onSent = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnSent(cb)
	}
}

// SetOnPoll replaces the poll bridge slot.
func (c *TcpClient) SetOnPoll(cb func()) {
	c.onPoll = cb
	if c.clientCtx != nil {
		c.clientCtx.SetOnPoll(cb)
	}
}

// Connect dispatches through the SyncAccessor, same-core fast path or
// cross-core SyncBridge, then runs tsConnect on the networking core.
func (c *TcpClient) Connect(ip string, port int) error {
	return c.accessor.Connect(ip, port)
}

// Status returns the connection's stack state via a synced read.
func (c *TcpClient) Status() stack.State {
	return c.accessor.Status()
}

// Write asserts preconditions and delegates to the context's writer.
// Always runs on the owning core, regardless of caller (RxBuffer and
// TxWriter have no concurrent readers).
func (c *TcpClient) Write(data []byte) error {
	if len(data) == 0 {
		return api.ErrInvalidArgument
	}
	var result error
	c.actx.ExecuteSynchronously(func(any) uint32 {
		if c.clientCtx == nil {
			result = api.ErrInvalidState
			return 0
		}
		result = c.clientCtx.Write(data)
		return 0
	}, nil)
	return result
}

// Consume advances the receive cursor by n bytes and acknowledges them
// to the stack, the application's half of draining RxBuffer. Always
// runs on the owning core.
func (c *TcpClient) Consume(n int) {
	c.actx.ExecuteSynchronously(func(any) uint32 {
		if c.clientCtx != nil {
			c.clientCtx.RxBuffer().Consume(n)
		}
		return 0
	}, nil)
}

// Stop closes the current connection, if any. Repeated calls are safe:
// Stop keeps the context, and the second call finds its PCB already
// nulled and returns true without touching it.
func (c *TcpClient) Stop() bool {
	c.actx.ExecuteSynchronously(func(any) uint32 {
		if c.clientCtx != nil {
			_ = c.clientCtx.Close()
		}
		return 0
	}, nil)
	return true
}

// Shutdown closes and drops the current context, freeing it for a fresh
// Connect. Implements api.GracefulShutdown; safe to call more than once.
func (c *TcpClient) Shutdown() error {
	c.actx.ExecuteSynchronously(func(any) uint32 {
		if c.clientCtx != nil {
			_ = c.clientCtx.Close()
			c.clientCtx = nil
		}
		return 0
	}, nil)
	return nil
}

var _ api.GracefulShutdown = (*TcpClient)(nil)

// tsConnect runs on the networking core, guaranteed by the caller
// (SyncAccessor.execute).
func (c *TcpClient) tsConnect(ip string, port int) error {
	if c.clientCtx != nil {
		return api.ErrResourceInUse
	}

	pcb, err := c.factory.NewPCB()
	if err != nil || pcb == nil {
		return api.ErrIO
	}

	if c.cfg.LocalPortStart > 0 {
		if nextLocalPort == 0 {
			nextLocalPort = c.cfg.LocalPortStart
		}
		if binder, ok := pcb.(localPortBinder); ok {
			_ = binder.BindLocalPort(nextLocalPort)
		}
		nextLocalPort++
	}

	cctx := NewClientContext(c.actx, pcb, c.cfg, func(chunk []byte) (int, error) {
		return pcb.Write(chunk, stack.WriteFlagCopy)
	})
	cctx.SetOnConnected(c.onConnected)
	cctx.SetOnError(c.onError)
	cctx.SetOnData(c.onData)
	cctx.SetOnFin(c.onFin)
	cctx.SetOnSent(c.onSent)
	cctx.SetOnPoll(c.onPoll)

	if err := pcb.Connect(ip, port); err != nil {
		_ = cctx.Close()
		return api.ErrIO
	}

	pcb.SetNoDelay(c.cfg.NoDelay)
	c.clientCtx = cctx
	return nil
}

// currentState reads the connection state for SyncAccessor.Status.
func (c *TcpClient) currentState() stack.State {
	if c.clientCtx == nil {
		return stack.StateNone
	}
	return c.clientCtx.State()
}

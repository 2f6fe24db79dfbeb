// File: tcpclient/syncaccessor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SyncAccessor is the specialization of bridge.SyncBridge the public
// TcpClient.Connect/Status calls go through: a same-core fast path when
// the caller already happens to be on the networking core's own
// goroutine, a cross-core SyncBridge dispatch otherwise.
package tcpclient

import (
	"github.com/asynctcp/asynctcp/bridge"
	"github.com/asynctcp/asynctcp/concurrency"
	"github.com/asynctcp/asynctcp/stack"
)

// connectPayload carries a connect request's arguments in and its
// result out across the bridge dispatch.
type connectPayload struct {
	ip   string
	port int
	err  error
}

// statusPayload carries a status read's result out across the bridge
// dispatch.
type statusPayload struct {
	state stack.State
}

// SyncAccessor serializes cross-core access to a TcpClient's networking
// operations.
type SyncAccessor struct {
	ctx    *concurrency.AsyncContext
	bridge *bridge.SyncBridge
	client *TcpClient
}

// NewSyncAccessor builds an accessor for client, running on ctx.
func NewSyncAccessor(ctx *concurrency.AsyncContext, client *TcpClient) *SyncAccessor {
	a := &SyncAccessor{ctx: ctx, client: client}
	a.bridge = bridge.NewSyncBridge(ctx, a.execute)
	return a
}

// execute is the bridge's onExecute target: it always runs on ctx's
// run-loop goroutine, so it may touch client.clientCtx directly.
func (a *SyncAccessor) execute(payload any) uint32 {
	switch p := payload.(type) {
	case *connectPayload:
		p.err = a.client.tsConnect(p.ip, p.port)
	case *statusPayload:
		p.state = a.client.currentState()
	}
	return 0
}

// Connect runs tsConnect on the owning core, either inline (same-core
// fast path) or via the SyncBridge (cross-core).
func (a *SyncAccessor) Connect(ip string, port int) error {
	p := &connectPayload{ip: ip, port: port}
	if a.ctx.IsCurrentGoroutine() {
		a.execute(p)
	} else if _, err := a.bridge.Execute(p); err != nil {
		return err
	}
	return p.err
}

// Status reads the connection state on the owning core, either inline
// or via the SyncBridge.
func (a *SyncAccessor) Status() stack.State {
	p := &statusPayload{}
	if a.ctx.IsCurrentGoroutine() {
		a.execute(p)
	} else {
		_, _ = a.bridge.Execute(p)
	}
	return p.state
}

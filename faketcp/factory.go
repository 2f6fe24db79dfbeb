// File: faketcp/factory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package faketcp

import (
	"fmt"

	"github.com/asynctcp/asynctcp/stack"
)

// ErrAllocation is returned by Factory.NewPCB when configured to
// simulate memory shortage, the fake analogue of tcp_new() returning
// null.
var ErrAllocation = fmt.Errorf("faketcp: pcb allocation failed")

// Factory builds PCBs with a fixed MSS/send-buffer configuration,
// implementing stack.Factory.
type Factory struct {
	MSS           int
	SendBufferCap int

	// FailAllocation, if true, makes every NewPCB call return
	// ErrAllocation instead of a PCB.
	FailAllocation bool

	// Built records every PCB this factory has handed out, for
	// assertions against the most recently created connection.
	Built []*PCB
}

// NewFactory builds a factory with the given defaults.
func NewFactory(mss, sendBufferCap int) *Factory {
	return &Factory{MSS: mss, SendBufferCap: sendBufferCap}
}

// NewPCB implements stack.Factory.
func (f *Factory) NewPCB() (stack.PCB, error) {
	if f.FailAllocation {
		return nil, ErrAllocation
	}
	p := NewPCB(f.MSS, f.SendBufferCap)
	f.Built = append(f.Built, p)
	return p, nil
}

// Last returns the most recently built PCB, or nil if none yet.
func (f *Factory) Last() *PCB {
	if len(f.Built) == 0 {
		return nil
	}
	return f.Built[len(f.Built)-1]
}

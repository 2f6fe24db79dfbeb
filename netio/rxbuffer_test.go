// File: netio/rxbuffer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netio

import (
	"testing"

	"github.com/asynctcp/asynctcp/faketcp"
	"github.com/asynctcp/asynctcp/stack"
)

func TestRxBuffer_ConsumeWithinSegment(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)

	var dataEvents int
	rx.SetOnReceivedCallback(func() { dataEvents++ })

	seg := &stack.Segment{Data: []byte("hello")}
	if disp := rx.ReceiveCallback(seg, nil); disp != stack.DispositionOK {
		t.Fatalf("ReceiveCallback: got %v, want OK", disp)
	}
	if dataEvents != 1 {
		t.Fatalf("data events = %d, want 1", dataEvents)
	}
	if got := rx.PeekAvailable(); got != 5 {
		t.Fatalf("PeekAvailable = %d, want 5", got)
	}

	rx.Consume(3)
	if got := string(rx.PeekBuffer()); got != "lo" {
		t.Fatalf("PeekBuffer after Consume(3) = %q, want %q", got, "lo")
	}
	if pcb.RecvedTotal() != 3 {
		t.Fatalf("RecvedTotal = %d, want 3", pcb.RecvedTotal())
	}
}

func TestRxBuffer_ConsumeCrossesSegments(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)

	first := &stack.Segment{Data: []byte("AB")}
	rx.ReceiveCallback(first, nil)
	second := &stack.Segment{Data: []byte("CDE")}
	rx.ReceiveCallback(second, nil)

	rx.Consume(5)
	if rx.PeekAvailable() != 0 {
		t.Fatalf("expected buffer drained, got %d bytes available", rx.PeekAvailable())
	}
	if pcb.RecvedTotal() != 5 {
		t.Fatalf("RecvedTotal = %d, want 5", pcb.RecvedTotal())
	}
}

func TestRxBuffer_ConsumeZeroIsNoOp(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)
	rx.ReceiveCallback(&stack.Segment{Data: []byte("x")}, nil)

	rx.Consume(0)
	if pcb.RecvedTotal() != 0 {
		t.Fatalf("RecvedTotal after Consume(0) = %d, want 0", pcb.RecvedTotal())
	}
}

func TestRxBuffer_RecvedChunkedAtSixteenBits(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 200000)
	rx := NewRxBuffer(pcb)

	big := make([]byte, 70000)
	rx.ReceiveCallback(&stack.Segment{Data: big}, nil)
	rx.Consume(len(big))

	if pcb.RecvedTotal() != len(big) {
		t.Fatalf("RecvedTotal = %d, want %d", pcb.RecvedTotal(), len(big))
	}
}

func TestRxBuffer_HalfFlushBeforeFin(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)

	var finFired bool
	rx.SetOnFinCallback(func() { finFired = true })

	rx.ReceiveCallback(&stack.Segment{Data: []byte("AB")}, nil)
	rx.ReceiveCallback(&stack.Segment{Data: []byte("CDE")}, nil)

	if disp := rx.ReceiveCallback(nil, nil); disp != stack.DispositionOK {
		t.Fatalf("FIN with buffered data should return OK, got %v", disp)
	}
	if finFired {
		t.Fatal("FIN callback fired before buffered data was consumed")
	}

	rx.Consume(5)
	if !finFired {
		t.Fatal("FIN callback did not fire after buffer fully drained")
	}
}

func TestRxBuffer_FinWithEmptyBufferAborts(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)

	var finFired bool
	rx.SetOnFinCallback(func() { finFired = true })

	if disp := rx.ReceiveCallback(nil, nil); disp != stack.DispositionAbort {
		t.Fatalf("FIN with empty buffer should abort, got %v", disp)
	}
	if !finFired {
		t.Fatal("FIN callback did not fire")
	}
}

func TestRxBuffer_ErrorAborts(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	rx := NewRxBuffer(pcb)

	disp := rx.ReceiveCallback(nil, faketcp.ErrClosed)
	if disp != stack.DispositionAbort {
		t.Fatalf("got %v, want abort on error", disp)
	}
}

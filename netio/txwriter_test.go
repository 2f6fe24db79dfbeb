// File: netio/txwriter_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netio

import (
	"testing"
	"time"

	"github.com/asynctcp/asynctcp/faketcp"
	"github.com/asynctcp/asynctcp/stack"
)

func writeFuncFor(pcb *faketcp.PCB) WriteChunkFunc {
	return func(chunk []byte) (int, error) {
		return pcb.Write(chunk, stack.WriteFlagCopy)
	}
}

func TestTxWriter_SmallWriteAckedMode(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	var doneCalls int
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), func(error) { doneCalls++ }, 0)

	if err := w.Write(make([]byte, 512)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if chunks := pcb.SentChunks(); len(chunks) != 1 || len(chunks[0]) != 512 {
		t.Fatalf("expected one 512-byte chunk, got %v", chunks)
	}
	if !w.IsWriteInProgress() {
		t.Fatal("expected write in progress before ACK")
	}

	pcb.DeliverSent(512)
	w.OnAck(512)

	if w.IsWriteInProgress() {
		t.Fatal("expected write complete after full ACK")
	}
	if doneCalls != 1 {
		t.Fatalf("onDone called %d times, want 1", doneCalls)
	}
	if w.InFlight() != 0 {
		t.Fatalf("InFlight = %d, want 0", w.InFlight())
	}
}

func TestTxWriter_SplitWriteCrossingSendBuffer(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 1000)
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), nil, 0)

	if err := w.Write(make([]byte, 3000)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	chunks := pcb.SentChunks()
	if len(chunks) != 1 || len(chunks[0]) != 1000 {
		t.Fatalf("first round: got %v, want one 1000-byte chunk", chunks)
	}

	pcb.DeliverSent(600)
	w.OnAck(600)
	chunks = pcb.SentChunks()
	if len(chunks) != 2 || len(chunks[1]) != 600 {
		t.Fatalf("second round: got %v, want a 600-byte chunk", chunks)
	}

	pcb.DeliverSent(400)
	w.OnAck(400)
	chunks = pcb.SentChunks()
	if len(chunks) != 3 || len(chunks[2]) != 400 {
		t.Fatalf("third round: got %v, want a 400-byte chunk", chunks)
	}

	acked := 1000 // 600 + 400 acked so far
	for w.IsWriteInProgress() {
		ack := 3000 - acked
		if ack > 1000 {
			ack = 1000
		}
		pcb.DeliverSent(ack)
		w.OnAck(ack)
		acked += ack
	}

	if w.IsWriteInProgress() {
		t.Fatal("expected write complete once all bytes are acked")
	}
	if acked != 3000 {
		t.Fatalf("total acked = %d, want 3000", acked)
	}
}

func TestTxWriter_StallTimeout(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 4000)
	var timedOutErr error
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), func(err error) { timedOutErr = err }, 5*time.Millisecond)

	if err := w.Write(make([]byte, 4000)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if !w.HasTimedOut() {
		t.Fatal("expected HasTimedOut to be true after stall timeout elapsed")
	}
	w.OnWriteTimeout()

	if w.IsWriteInProgress() {
		t.Fatal("expected write abandoned after timeout")
	}
	if timedOutErr != ErrWriteStalled {
		t.Fatalf("onDone err = %v, want ErrWriteStalled", timedOutErr)
	}
}

func TestTxWriter_EnqueuedModeCompletesOnQueue(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 4000)
	var doneCalls int
	w := NewTxWriter(pcb, CompletionEnqueued, writeFuncFor(pcb), func(error) { doneCalls++ }, 0)

	if err := w.Write(make([]byte, 256)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if w.IsWriteInProgress() {
		t.Fatal("expected enqueued-mode write to complete without waiting for ACK")
	}
	if doneCalls != 1 {
		t.Fatalf("onDone called %d times, want 1", doneCalls)
	}
}

func TestTxWriter_EmptyWriteRejected(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 2920)
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), nil, 0)

	if err := w.Write(nil); err != ErrEmptyWrite {
		t.Fatalf("Write(nil) = %v, want ErrEmptyWrite", err)
	}
}

func TestTxWriter_SecondWriteWhileInProgressRejected(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 4000)
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), nil, 0)

	_ = w.Write(make([]byte, 100))
	if err := w.Write(make([]byte, 100)); err != ErrWriteInProgress {
		t.Fatalf("second Write = %v, want ErrWriteInProgress", err)
	}
}

func TestTxWriter_OnErrorCompletesWrite(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 4000)
	var gotErr error
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), func(err error) { gotErr = err }, 0)

	_ = w.Write(make([]byte, 100))
	sentinel := faketcp.ErrClosed
	w.OnError(sentinel)

	if w.IsWriteInProgress() {
		t.Fatal("expected write completed after OnError")
	}
	if gotErr != sentinel {
		t.Fatalf("onDone err = %v, want %v", gotErr, sentinel)
	}
}

func TestTxWriter_Backpressure(t *testing.T) {
	pcb := faketcp.NewPCB(1460, 1000)
	w := NewTxWriter(pcb, CompletionAcked, writeFuncFor(pcb), nil, 0)

	_ = w.Write(make([]byte, 1000))
	if !w.ShouldBackpressure() {
		t.Fatal("expected backpressure with send buffer fully in flight")
	}

	pcb.DeliverSent(600)
	w.OnAck(600)
	if !w.CanReleaseBackpressure() {
		t.Fatal("expected backpressure release once in-flight drops to 50%")
	}
}

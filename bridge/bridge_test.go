// File: bridge/bridge_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bridge

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/asynctcp/asynctcp/concurrency"
)

func TestPerpetualBridge_RunInvokesOnWork(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	var calls atomic.Int32
	b := NewPerpetualBridge(ctx, func() { calls.Add(1) })
	if err := b.InitialiseBridge(); err != nil {
		t.Fatalf("InitialiseBridge: %v", err)
	}

	b.Run()
	b.Run()

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestPerpetualBridge_CloseStopsFutureRuns(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	var calls atomic.Int32
	b := NewPerpetualBridge(ctx, func() { calls.Add(1) })
	_ = b.InitialiseBridge()

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b.Run()

	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0 after Close", calls.Load())
	}
}

func TestEphemeralBridge_FiresOnceWithoutRetention(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	var calls atomic.Int32
	fired := make(chan struct{})
	// Deliberately not retained: the scheduler's own pending-worker
	// registration is what keeps this bridge reachable until it fires.
	NewEphemeralBridge(ctx, func() {
		calls.Add(1)
		close(fired)
	}).Run(5 * time.Millisecond)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("ephemeral bridge never fired")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestEphemeralBridge_CloseCancelsBeforeFire(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	var calls atomic.Int32
	b := NewEphemeralBridge(ctx, func() { calls.Add(1) })
	b.Run(50 * time.Millisecond)

	if !b.Close() {
		t.Fatal("expected Close to cancel before the delay elapses")
	}
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0 after Close", calls.Load())
	}
	if b.Fired() {
		t.Fatal("Fired should remain false after cancellation")
	}
}

func TestSyncBridge_ExecuteReturnsHandlerResult(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	b := NewSyncBridge(ctx, func(payload any) uint32 {
		return payload.(uint32) * 2
	})

	result, err := b.Execute(uint32(21))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result != 42 {
		t.Fatalf("result = %d, want 42", result)
	}
}

func TestSyncBridge_ExecuteWithoutHandlerFails(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	b := NewSyncBridge(ctx, nil)
	if _, err := b.Execute(nil); err == nil {
		t.Fatal("expected an error from a bridge with no handler installed")
	}
}

func TestSyncBridge_ConcurrentCallsSerialize(t *testing.T) {
	ctx := concurrency.NewAsyncContext(concurrency.CoreID(0))
	go ctx.Run()
	defer ctx.Stop()

	var inFlight atomic.Int32
	var maxObserved atomic.Int32
	b := NewSyncBridge(ctx, func(any) uint32 {
		n := inFlight.Add(1)
		if n > maxObserved.Load() {
			maxObserved.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return 0
	})

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			_, _ = b.Execute(nil)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	if maxObserved.Load() != 1 {
		t.Fatalf("max concurrent Execute calls observed = %d, want 1", maxObserved.Load())
	}
}

// File: internal/pin/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Affinity implements api.Affinity over ToCPU, giving AsyncContext.Run a
// concrete pinning strategy instead of calling the package function
// directly, so a context can be built without any OS affinity at all
// (tests, non-Linux) by simply not supplying one.

package pin

import (
	"errors"
	"sync/atomic"

	"github.com/asynctcp/asynctcp/api"
)

var _ api.Affinity = (*Affinity)(nil)

// ErrNotPinned is returned by Get when no Pin call has succeeded yet.
var ErrNotPinned = errors.New("pin: goroutine is not pinned to any cpu")

// Affinity pins the calling goroutine's OS thread to a single CPU via
// ToCPU and remembers the last cpuID that succeeded.
type Affinity struct {
	cpuID atomic.Int64
	set   atomic.Bool
}

// Pin locks the current goroutine to cpuID.
func (a *Affinity) Pin(cpuID int) error {
	if err := ToCPU(cpuID); err != nil {
		return err
	}
	a.cpuID.Store(int64(cpuID))
	a.set.Store(true)
	return nil
}

// Unpin clears the remembered CPU. The OS thread itself stays locked;
// there is no portable "unpin" syscall, matching ToCPU's no-op fallback
// on platforms without SchedSetaffinity.
func (a *Affinity) Unpin() error {
	a.set.Store(false)
	return nil
}

// Get returns the last CPU successfully pinned via Pin.
func (a *Affinity) Get() (cpuID int, err error) {
	if !a.set.Load() {
		return 0, ErrNotPinned
	}
	return int(a.cpuID.Load()), nil
}

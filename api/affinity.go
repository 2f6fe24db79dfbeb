// Package api
// Author: momentics@gmail.com
//
// CPU affinity and thread pinning contract, used to bind an AsyncContext's
// owning goroutine to the networking core it represents.

package api

// Affinity controls execution on a particular CPU.
type Affinity interface {
	// Pin locks the current goroutine to cpuID.
	Pin(cpuID int) error
	// Unpin removes affinity.
	Unpin() error
	// Get returns the current CPU, if pinned.
	Get() (cpuID int, err error)
}

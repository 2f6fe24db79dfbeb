// File: internal/pin/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-generic dispatcher for binding an AsyncContext's run-loop
// goroutine to a specific CPU, a real OS-level affinity rather than just
// a logical label. Always overridden by a matching platform file via
// build tag; on unsupported systems it is a no-op.

package pin

// ToCPU locks the calling goroutine's OS thread and pins it to cpuID.
// Implemented per platform; a no-op where the OS offers no affinity API.
func ToCPU(cpuID int) error {
	return toCPU(cpuID)
}

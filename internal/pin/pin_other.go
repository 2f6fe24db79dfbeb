//go:build !linux
// +build !linux

// File: internal/pin/pin_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback for platforms without a CPU affinity syscall exposed through
// golang.org/x/sys.

package pin

func toCPU(cpuID int) error {
	return nil
}

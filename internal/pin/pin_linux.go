//go:build linux
// +build linux

// File: internal/pin/pin_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux affinity via golang.org/x/sys/unix. No cgo required; this module
// has no NUMA requirement, only per-core affinity for the two async
// contexts.

package pin

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func toCPU(cpuID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

// Package goid identifies the calling goroutine.
//
// The async-context bridge needs to know, cheaply and without threading a
// context value through every call, whether code is already running on a
// given AsyncContext's owning goroutine (the Go stand-in for "the
// networking core") so that SyncBridge and SyncAccessor can take their
// same-core fast path instead of re-entering the scheduler and risking a
// self-deadlock. The standard library does not expose a goroutine
// identifier, so this package parses it out of a runtime stack trace — the
// conventional escape hatch used by goroutine-local-storage shims in the
// wider Go ecosystem. No third-party library in the retrieved examples
// solves this more directly than the standard library already allows.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Current returns the id of the calling goroutine.
func Current() uint64 {
	buf := stackBuf()
	b := buf[:runtime.Stack(buf, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, _ := strconv.ParseUint(string(b[:i]), 10, 64)
	return id
}

func stackBuf() []byte {
	return make([]byte, 64)
}

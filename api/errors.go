// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types shared across the async-context bridge and the TCP
// client state machine.

package api

import "fmt"

// Resource and programming-error sentinels returned by the public surface.
// These never cross into callback code; stack-reported errors are forwarded
// as *StackError instead.
var (
	ErrResourceInUse   = fmt.Errorf("resource in use")
	ErrInvalidState    = fmt.Errorf("invalid state")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrIO              = fmt.Errorf("io error")
	ErrTimeout         = fmt.Errorf("operation timeout")
	ErrNoData          = fmt.Errorf("no data available")
	ErrGeneric         = fmt.Errorf("generic error")
)

// StackCode enumerates the native error codes the simulated network stack
// may report, forwarded verbatim through the error-callback bridge.
type StackCode int

const (
	StackOK StackCode = iota
	StackMemoryShortage
	StackConnectionClosed
	StackAborted
	StackTimeout
	StackRouteError
	StackBufferError
	StackArgumentError
	StackUseError
	StackIsConnected
)

func (c StackCode) String() string {
	switch c {
	case StackOK:
		return "ok"
	case StackMemoryShortage:
		return "memory-shortage"
	case StackConnectionClosed:
		return "connection-closed"
	case StackAborted:
		return "aborted"
	case StackTimeout:
		return "timeout"
	case StackRouteError:
		return "route-error"
	case StackBufferError:
		return "buffer-error"
	case StackArgumentError:
		return "argument-error"
	case StackUseError:
		return "use-error"
	case StackIsConnected:
		return "already-connected"
	default:
		return "unknown"
	}
}

// StackError wraps a native stack error code so it can be forwarded to
// application error callbacks without losing its identity.
type StackError struct {
	Code StackCode
}

func (e *StackError) Error() string {
	return fmt.Sprintf("stack error: %s", e.Code)
}

// NewStackError wraps a raw stack code as an error, or nil for StackOK.
func NewStackError(code StackCode) error {
	if code == StackOK {
		return nil
	}
	return &StackError{Code: code}
}

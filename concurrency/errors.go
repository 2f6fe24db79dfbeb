// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for the concurrency module.

package concurrency

import "errors"

var (
	// ErrContextClosed indicates the AsyncContext has been stopped.
	ErrContextClosed = errors.New("async context is closed")

	// ErrWorkerAlreadyRegistered indicates a PerpetualWorker is already
	// registered with a context.
	ErrWorkerAlreadyRegistered = errors.New("worker already registered")

	// ErrWorkerNotRegistered indicates removal was attempted on a worker
	// that is not currently registered.
	ErrWorkerNotRegistered = errors.New("worker not registered")
)

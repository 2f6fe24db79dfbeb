// File: netio/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package netio

import "errors"

var (
	// ErrWriteInProgress is returned by Write while a previous write on
	// the same TxWriter has not yet completed.
	ErrWriteInProgress = errors.New("netio: write already in progress")
	// ErrEmptyWrite is returned by Write when called with no data.
	ErrEmptyWrite = errors.New("netio: write called with empty data")
	// ErrWriteStalled is the error a write completes with after the stall
	// timeout abandons it.
	ErrWriteStalled = errors.New("netio: write stalled, no progress within timeout")
)

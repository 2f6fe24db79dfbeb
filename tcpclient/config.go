// File: tcpclient/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package tcpclient

import (
	"time"

	"github.com/asynctcp/asynctcp/netio"
)

// ClientConfig holds the knobs this state machine needs per connection.
type ClientConfig struct {
	// LocalPortStart, if > 0, causes each connect to bind a local port
	// drawn from a process-wide counter seeded at this value.
	LocalPortStart int

	// WriteMode selects TxWriter's completion policy for every write on
	// clients built with this config.
	WriteMode netio.CompletionMode

	// StallTimeout overrides TxWriter's default 2s stall detection; zero
	// keeps the default.
	StallTimeout time.Duration

	// NoDelay is applied to the PCB immediately after a successful
	// connect.
	NoDelay bool
}

// DefaultClientConfig returns sane defaults: Acked completion, Nagle
// disabled, no local port binding.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{WriteMode: netio.CompletionAcked, NoDelay: true}
}

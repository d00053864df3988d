// File: api/reporter.go
// Package api defines the Reporter interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Reporter forwards observed breadcrumb values to an external
// observer. The wire contract is one datagram per distinct value,
// 4-byte big-endian payload, no acknowledgment and no retransmission.
//
// A Reporter error is terminal for the monitor: once a send fails the
// monitor exits and every later checkpoint on the unit side blocks
// forever. This is an accepted property of the feature, not a
// recoverable condition.
type Reporter interface {
	// Report sends one breadcrumb value.
	Report(seqno uint32) error

	// Close releases the underlying socket. Idempotent.
	Close() error
}

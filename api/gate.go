// File: api/gate.go
// Package api defines the ContinueGate interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// ContinueGate is the operator confirmation point. Once the monitor
// reaches the configured breakpoint it calls Await before
// acknowledging each further breadcrumb, converting automatic
// progress into single-stepping.
//
// Await blocks until the operator releases the pause. The monitor's
// stop flag is deliberately not observed while blocked here;
// cancellation requested during a pause takes effect only after the
// pause resolves.
type ContinueGate interface {
	Await(seqno uint32)
}

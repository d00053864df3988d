// Package api
// Author: momentics <momentics@gmail.com>
//
// Poll policy abstraction for the monitor loop. The monitor polls the
// unit counter as tightly as the policy allows; detection latency is
// what the hang forensics depend on, so the default policy trades host
// CPU for near-zero latency. Injecting a policy lets deployments bound
// CPU usage without changing the loop itself.

package api

// PollPolicy decides how the monitor behaves between unchanged polls.
type PollPolicy interface {
	// Idle is called after a poll that observed no counter change.
	// spins is the number of consecutive idle polls since the last
	// observed change.
	Idle(spins int)
}

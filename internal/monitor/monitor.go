// File: internal/monitor/monitor.go
// Package monitor implements the breadcrumb monitor loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The monitor bridges the unit-written rendezvous counter to the
// external observer and, past the configured breakpoint, to the
// operator gate. It polls as tightly as the injected policy allows:
// the whole point is to catch the exact last-good checkpoint before a
// hang, so detection latency beats host CPU cost.
//
// A transport failure is terminal. The monitor logs, closes its
// reporter and exits; every later checkpoint on the unit side then
// blocks forever on an acknowledgment that will never arrive. This is
// a documented property of the feature, not a recoverable error.

package monitor

import (
	"log"
	"sync/atomic"

	"github.com/momentics/crumbsync/api"
	"github.com/momentics/crumbsync/core/rendezvous"
)

// Config carries the monitor's collaborators and thresholds.
type Config struct {
	Counters *rendezvous.Counters
	History  *rendezvous.History
	Reporter api.Reporter
	Gate     api.ContinueGate
	Policy   api.PollPolicy

	// Breakpoint and RequiredHits gate the operator pause; see Run.
	Breakpoint   uint32
	RequiredHits uint32

	// Stop is the cooperative cancellation flag, polled once per
	// loop iteration. It is not observed while blocked in Gate.Await.
	Stop *atomic.Bool
}

// Monitor runs the observe/report/pause/ack loop for one session.
type Monitor struct {
	cfg Config

	last atomic.Uint32
	hits atomic.Uint32
}

// New returns a monitor ready to Run.
func New(cfg Config) *Monitor {
	return &Monitor{cfg: cfg}
}

// Last returns the most recently observed unit counter value.
func (m *Monitor) Last() uint32 { return m.last.Load() }

// Hits returns how many times the exact breakpoint index was observed.
func (m *Monitor) Hits() uint32 { return m.hits.Load() }

// Run polls the unit counter until the stop flag is set or the
// reporter fails. For every observed change it:
//
//  1. records the value and sends it as one datagram (terminal on
//     failure),
//  2. counts a hit when the value equals the breakpoint exactly, so a
//     replayed stream crossing the same position needs several
//     occurrences before pausing,
//  3. awaits the operator gate once value >= breakpoint and the hit
//     count reached the threshold,
//  4. acknowledges by storing the value into the host counter,
//     unblocking the unit's wait instruction.
func (m *Monitor) Run() {
	defer func() {
		if err := m.cfg.Reporter.Close(); err != nil {
			log.Printf("crumbsync: reporter close: %v", err)
		}
	}()

	idle := 0
	for !m.cfg.Stop.Load() {
		cur := m.cfg.Counters.LoadUnit()
		if cur == m.last.Load() {
			idle++
			m.cfg.Policy.Idle(idle)
			continue
		}
		idle = 0
		m.last.Store(cur)
		if m.cfg.History != nil {
			m.cfg.History.Record(cur)
		}

		if err := m.cfg.Reporter.Report(cur); err != nil {
			log.Printf("crumbsync: breadcrumb %d report failed: %v", cur, err)
			return
		}

		if cur == m.cfg.Breakpoint {
			m.hits.Add(1)
		}
		if cur >= m.cfg.Breakpoint && m.hits.Load() >= m.cfg.RequiredHits {
			m.cfg.Gate.Await(cur)
		}

		m.cfg.Counters.StoreHost(cur)
	}
}

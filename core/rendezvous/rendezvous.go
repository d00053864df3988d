// File: core/rendezvous/rendezvous.go
// Package rendezvous implements the two-counter handshake cell.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Counters is the shared-memory rendezvous between the processing unit
// and the host. It is deliberately lock-free: correctness rests on
// single-writer-per-field discipline, not mutual exclusion.
//
// Field ownership:
//   - unit seqno: written only by unit-side instructions (or the fake
//     unit in tests), read by the monitor. Monotonically non-decreasing
//     while a session is active.
//   - host seqno: written only by the monitor, read by the unit's wait
//     instruction. Set only to values previously observed in the unit
//     seqno.
//
// All accesses go through sync/atomic, whose sequentially consistent
// ordering subsumes the acquire-on-read / release-on-write pairing the
// hardware boundary requires; neither side can observe a stale value
// after the corresponding store.

package rendezvous

import "sync/atomic"

const cacheLinePad = 64

// Counters is a pair of single-writer counters at a stable, mapped
// address. The unit-visible addresses of the two fields are fixed at
// construction and never change for the lifetime of the device.
type Counters struct {
	unitSeqno atomic.Uint32
	_         [cacheLinePad - 4]byte
	hostSeqno atomic.Uint32
	_         [cacheLinePad - 4]byte

	baseAddr uint64
}

// Word offsets of the two fields within the unit-visible region.
const (
	unitSeqnoOffset = 0
	hostSeqnoOffset = 4
)

// NewCounters returns a zeroed counter pair whose unit-visible region
// starts at baseAddr.
func NewCounters(baseAddr uint64) *Counters {
	return &Counters{baseAddr: baseAddr}
}

// Reset zeroes both counters. Only valid while no monitor is running
// and no instrumented stream is in flight.
func (c *Counters) Reset() {
	c.unitSeqno.Store(0)
	c.hostSeqno.Store(0)
}

// LoadUnit reads the unit-written counter. Host side (monitor).
func (c *Counters) LoadUnit() uint32 { return c.unitSeqno.Load() }

// StoreHost acknowledges an observed value. Host side (monitor); the
// monitor is the sole writer of this field.
func (c *Counters) StoreHost(v uint32) { c.hostSeqno.Store(v) }

// StoreUnit publishes unit progress. Unit side; the unit is the sole
// writer of this field.
func (c *Counters) StoreUnit(v uint32) { c.unitSeqno.Store(v) }

// LoadHost reads the host acknowledgment. Unit side (wait instruction).
func (c *Counters) LoadHost() uint32 { return c.hostSeqno.Load() }

// UnitSeqnoAddr returns the unit-visible address of the unit counter,
// the target of the checkpoint's memory-write instruction.
func (c *Counters) UnitSeqnoAddr() uint64 { return c.baseAddr + unitSeqnoOffset }

// HostSeqnoAddr returns the unit-visible address of the host counter,
// the poll target of the checkpoint's wait instruction.
func (c *Counters) HostSeqnoAddr() uint64 { return c.baseAddr + hostSeqnoOffset }

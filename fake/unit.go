// File: fake/unit.go
// Package fake processing unit model.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unit executes a built command stream the way the engine's command
// processor would, as far as the checkpoint handshake is concerned:
// memory writes hitting the unit counter publish progress, wait
// packets poll the host counter, everything else retires immediately.

package fake

import (
	"context"
	"fmt"
	"runtime"

	"github.com/momentics/crumbsync/core/rendezvous"
	"github.com/momentics/crumbsync/core/stream"
)

// Unit is a fake processing unit bound to a device's rendezvous
// counters.
type Unit struct {
	counters *rendezvous.Counters

	// mem backs writes that target anything other than the counters.
	mem map[uint64]uint32
}

// NewUnit returns a unit sharing the given counters with the host.
func NewUnit(c *rendezvous.Counters) *Unit {
	return &Unit{counters: c, mem: make(map[uint64]uint32)}
}

// Execute interprets words packet by packet. A wait packet blocks
// until its condition holds or ctx is done; ctx expiring while blocked
// is how tests observe "the unit remains stuck on this checkpoint".
func (u *Unit) Execute(ctx context.Context, words []uint32) error {
	for i := 0; i < len(words); {
		hdr := words[i]
		if !stream.IsType7(hdr) {
			return fmt.Errorf("fake unit: malformed packet header %#x at word %d", hdr, i)
		}
		op := stream.HeaderOpcode(hdr)
		count := int(stream.HeaderCount(hdr))
		if i+1+count > len(words) {
			return fmt.Errorf("fake unit: truncated %v packet at word %d", op, i)
		}
		operands := words[i+1 : i+1+count]

		switch op {
		case stream.OpMemWrite:
			if count != stream.MemWriteOperands {
				return fmt.Errorf("fake unit: mem write with %d operands", count)
			}
			u.store(qword(operands[0], operands[1]), operands[2])

		case stream.OpWaitRegMem:
			if count != stream.WaitRegMemOperands {
				return fmt.Errorf("fake unit: wait with %d operands", count)
			}
			if fn := operands[0]; fn != stream.WaitFuncEqual|stream.WaitPollMemory {
				return fmt.Errorf("fake unit: unsupported wait function %#x", fn)
			}
			addr := qword(operands[1], operands[2])
			ref, mask := operands[3], operands[4]
			if err := u.pollUntil(ctx, addr, ref, mask); err != nil {
				return err
			}

		default:
			// Drains, draws, dispatches and blits retire immediately;
			// the fake models synchronization, not execution.
		}

		i += 1 + count
	}
	return nil
}

// pollUntil spins on addr until (*addr & mask) == ref.
func (u *Unit) pollUntil(ctx context.Context, addr uint64, ref, mask uint32) error {
	for {
		if u.load(addr)&mask == ref {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("fake unit: blocked waiting for %#x at %#x: %w", ref, addr, ctx.Err())
		default:
			runtime.Gosched()
		}
	}
}

func (u *Unit) store(addr uint64, v uint32) {
	switch addr {
	case u.counters.UnitSeqnoAddr():
		u.counters.StoreUnit(v)
	default:
		u.mem[addr] = v
	}
}

func (u *Unit) load(addr uint64) uint32 {
	switch addr {
	case u.counters.HostSeqnoAddr():
		return u.counters.LoadHost()
	case u.counters.UnitSeqnoAddr():
		return u.counters.LoadUnit()
	default:
		return u.mem[addr]
	}
}

func qword(lo, hi uint32) uint64 {
	return uint64(lo) | uint64(hi)<<32
}

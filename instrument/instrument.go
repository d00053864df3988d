// File: instrument/instrument.go
// Package instrument inserts synchronization checkpoints into command
// streams.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A checkpoint brackets a long-running packet with a drain, a progress
// write and a wait-for-acknowledgment, so an external monitor can pin
// down the exact last packet the unit retired before a hang. Only
// packets likely to run long enough to hang are worth bracketing; the
// allow-list below mirrors that judgment.
//
// Checkpoints are inserted only into growable streams: a fixed stream
// cannot guarantee room for the extra instructions and is silently
// skipped. Without a session the instrumenter is a no-op everywhere.

package instrument

import (
	"github.com/momentics/crumbsync/api"
	"github.com/momentics/crumbsync/core/stream"
	"github.com/momentics/crumbsync/internal/session"
)

// Instrumenter decides whether and where to insert checkpoints for
// one session. Safe for concurrent use by multiple stream builders;
// the only shared state is the session's atomic breadcrumb index.
type Instrumenter struct {
	sess *session.Session
}

// New returns an instrumenter bound to sess. A nil sess yields an
// inert instrumenter.
func New(sess *session.Session) *Instrumenter {
	return &Instrumenter{sess: sess}
}

// Attach wires the instrumenter into a stream's packet emission path,
// so EmitPacket brackets eligible packets automatically.
func (in *Instrumenter) Attach(s *stream.Stream) {
	if in == nil || in.sess == nil {
		return
	}
	s.SetCheckpoint(func(cs *stream.Stream, op stream.Opcode, operands uint16) {
		in.Checkpoint(cs, op, operands)
	})
}

// Checkpoint is called around a target packet. A non-zero operand
// count is the "before" form and is accepted only for allow-listed
// opcodes; a zero count is the "after" form closing a previously
// opened "before". Each accepted call consumes one breadcrumb index.
//
// Calling the "after" form with no checkpoint pending on cs is a
// stream-construction bug and panics.
func (in *Instrumenter) Checkpoint(cs api.StreamWriter, op stream.Opcode, operands uint16) {
	if !cs.Growable() {
		return
	}
	if in == nil || in.sess == nil || in.sess.Stopped() {
		return
	}

	before := operands != 0
	if before {
		if !checkpointable(op) {
			return
		}
	} else {
		if !cs.SyncPending() {
			panic("instrument: closing checkpoint with none open")
		}
		cs.ClearSync()
	}

	idx := in.sess.NextIndex()

	// Below the breakpoint the index still advances but nothing is
	// emitted; instruction overhead starts only at the region of
	// interest. The skip also leaves the pairing marker unset, so no
	// closing checkpoint fires for this packet.
	cfg := in.sess.Config()
	if cfg.Breakpoint != session.NoBreakpoint && idx < cfg.Breakpoint {
		return
	}

	in.emit(cs, idx)

	if before {
		cs.MarkSync(uint32(operands))
	}
}

// emit appends the checkpoint instruction sequence: drain everything
// in flight, publish idx to the unit counter, then poll the host
// counter until the monitor acknowledges that same value.
func (in *Instrumenter) emit(cs api.StreamWriter, idx uint32) {
	counters := in.sess.Counters()

	emitPacket(cs, stream.OpWaitMemWrites, 0)
	emitPacket(cs, stream.OpWaitForIdle, 0)
	emitPacket(cs, stream.OpWaitForFetch, 0)

	emitPacket(cs, stream.OpMemWrite, stream.MemWriteOperands)
	cs.EmitQW(counters.UnitSeqnoAddr())
	cs.Emit(idx)

	emitPacket(cs, stream.OpWaitRegMem, stream.WaitRegMemOperands)
	cs.Emit(stream.WaitFuncEqual | stream.WaitPollMemory)
	cs.EmitQW(counters.HostSeqnoAddr())
	cs.Emit(idx)
	cs.Emit(^uint32(0))
	cs.Emit(stream.WaitDelayCycles)
}

// emitPacket writes a bare packet header, reserving room for the
// operands the caller will emit.
func emitPacket(cs api.StreamWriter, op stream.Opcode, operands uint16) {
	cs.Reserve(int(operands) + 1)
	cs.Emit(stream.PacketHeader(op, operands))
}

// checkpointable lists the packet kinds worth bracketing: the
// indirect and indexed draw or dispatch variants, and blits.
func checkpointable(op stream.Opcode) bool {
	switch op {
	case stream.OpDispatch,
		stream.OpDispatchIndirect,
		stream.OpDrawIndexed,
		stream.OpDrawIndexedOffset,
		stream.OpDrawIndirect,
		stream.OpDrawIndexedIndirect,
		stream.OpDrawIndirectMulti,
		stream.OpDrawAuto,
		stream.OpBlit:
		return true
	default:
		return false
	}
}

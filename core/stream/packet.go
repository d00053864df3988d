// File: core/stream/packet.go
// Package stream command packet encoding.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Type-7 command packets: a header word carrying opcode, operand count
// and parity bits, followed by the operand words. The engine's fetch
// unit validates the parity bits before dispatching a packet.

package stream

import "math/bits"

// Opcode identifies a command packet kind.
type Opcode uint8

// Packet opcodes understood by the engine's command processor. Only
// the subset relevant to checkpoint instrumentation is listed; the
// long-running work packets (draws, dispatches, blits) are the ones
// worth bracketing with checkpoints, the wait/write packets are what
// the checkpoints themselves are made of.
const (
	OpNop Opcode = 0x10

	// Synchronization and memory packets.
	OpWaitMemWrites Opcode = 0x12 // retire all pending memory writes
	OpWaitForFetch  Opcode = 0x13 // fence the fetch engine itself
	OpWaitForIdle   Opcode = 0x26 // drain all in-flight execution
	OpMemWrite      Opcode = 0x3D // write a value to a 64-bit address
	OpWaitRegMem    Opcode = 0x3E // poll memory until a condition holds

	// Work packets.
	OpBlit                Opcode = 0x2C
	OpDispatch            Opcode = 0x33
	OpDispatchIndirect    Opcode = 0x34
	OpDrawIndexed         Opcode = 0x36
	OpDrawIndexedOffset   Opcode = 0x38
	OpDrawIndirect        Opcode = 0x39
	OpDrawIndexedIndirect Opcode = 0x3A
	OpDrawIndirectMulti   Opcode = 0x3B
	OpDrawAuto            Opcode = 0x3C
)

// OpWaitRegMem operand layout: function, address low, address high,
// reference value, mask, delay. The function word selects the compare
// and the poll source.
const (
	// WaitFuncEqual blocks until (*addr & mask) == ref.
	WaitFuncEqual uint32 = 0x3

	// WaitPollMemory selects memory (rather than register) polling.
	WaitPollMemory uint32 = 1 << 4

	// WaitDelayCycles bounds the granularity of the hardware's internal
	// retry loop while polling.
	WaitDelayCycles uint32 = 16
)

// WaitRegMemOperands is the operand count of an OpWaitRegMem packet.
const WaitRegMemOperands = 6

// MemWriteOperands is the operand count of an OpMemWrite packet.
const MemWriteOperands = 3

const (
	headerType7       = 0x7 << 28
	headerCountMask   = 0x3FFF
	headerOpcodeMask  = 0x7F
	headerOpcodeShift = 16
)

// PacketHeader encodes a type-7 packet header for op with count
// operand words.
func PacketHeader(op Opcode, count uint16) uint32 {
	return headerType7 |
		uint32(count)&headerCountMask |
		parity(uint32(count)&headerCountMask)<<15 |
		(uint32(op)&headerOpcodeMask)<<headerOpcodeShift |
		parity(uint32(op)&headerOpcodeMask)<<23
}

// HeaderOpcode extracts the opcode from a type-7 header word.
func HeaderOpcode(hdr uint32) Opcode {
	return Opcode(hdr >> headerOpcodeShift & headerOpcodeMask)
}

// HeaderCount extracts the operand count from a type-7 header word.
func HeaderCount(hdr uint32) uint16 {
	return uint16(hdr & headerCountMask)
}

// IsType7 reports whether hdr has well-formed type and parity bits.
func IsType7(hdr uint32) bool {
	if hdr&(0xF<<28) != headerType7 {
		return false
	}
	return hdr == PacketHeader(HeaderOpcode(hdr), HeaderCount(hdr))
}

// parity returns the odd-parity bit of v.
func parity(v uint32) uint32 {
	return uint32(bits.OnesCount32(v)&1) ^ 1
}

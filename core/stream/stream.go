// File: core/stream/stream.go
// Package stream implements the command-stream builder.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Stream accumulates command words destined for the engine's command
// processor. Growable streams may be extended at any point and are the
// only kind eligible for checkpoint instrumentation; fixed streams are
// backed by preallocated storage whose size cannot change once handed
// to the hardware.
//
// The checkpoint hook and the pending-sync countdown implement the
// begin/end pairing contract: an instrumented "before" checkpoint arms
// a countdown of operand words, and when the packet's last operand is
// emitted the stream fires the hook again to close the pair.

package stream

import "github.com/momentics/crumbsync/api"

// Mode selects the storage discipline of a Stream.
type Mode int

const (
	// ModeGrow allows the backing storage to be extended.
	ModeGrow Mode = iota

	// ModeFixed pins the stream to preallocated storage.
	ModeFixed
)

// CheckpointFunc is invoked around instrumentable packets. A non-zero
// operand count marks the call before a packet; zero closes the pair
// after the packet's operands were emitted.
type CheckpointFunc func(s *Stream, op Opcode, operands uint16)

// Stream is a command stream under construction. Not safe for
// concurrent use; each stream is built by one goroutine.
type Stream struct {
	mode  Mode
	words []uint32

	checkpoint CheckpointFunc

	syncOpen      bool
	syncCountdown uint32
}

var _ api.StreamWriter = (*Stream)(nil)

// New returns an empty growable stream.
func New() *Stream {
	return &Stream{mode: ModeGrow}
}

// NewFixed returns a stream backed by fixed storage of capacity words.
func NewFixed(capacity int) *Stream {
	return &Stream{mode: ModeFixed, words: make([]uint32, 0, capacity)}
}

// Mode returns the storage discipline of the stream.
func (s *Stream) Mode() Mode { return s.mode }

// Growable reports whether the backing storage may be extended.
func (s *Stream) Growable() bool { return s.mode == ModeGrow }

// Len returns the number of emitted words.
func (s *Stream) Len() int { return len(s.words) }

// Words returns the emitted command words. The slice aliases the
// stream's storage and is valid until the next Emit on a growable
// stream.
func (s *Stream) Words() []uint32 { return s.words }

// Reserve guarantees room for n more words. On a fixed stream it
// panics when the request exceeds the remaining capacity; running out
// of preallocated space is a construction bug, not a runtime fault.
func (s *Stream) Reserve(n int) {
	switch s.mode {
	case ModeGrow:
		if free := cap(s.words) - len(s.words); free < n {
			grown := make([]uint32, len(s.words), growCapacity(cap(s.words), len(s.words)+n))
			copy(grown, s.words)
			s.words = grown
		}
	case ModeFixed:
		if cap(s.words)-len(s.words) < n {
			panic("stream: reserve beyond fixed capacity")
		}
	}
}

// Emit appends one command word. While a checkpoint countdown is
// armed, each word consumes one operand slot; the word that exhausts
// the countdown fires the closing checkpoint.
func (s *Stream) Emit(w uint32) {
	s.Reserve(1)
	s.words = append(s.words, w)

	if s.syncCountdown > 0 {
		s.syncCountdown--
		if s.syncCountdown == 0 && s.checkpoint != nil {
			s.checkpoint(s, OpNop, 0)
		}
	}
}

// EmitQW appends a 64-bit value, low word first.
func (s *Stream) EmitQW(v uint64) {
	s.Emit(uint32(v))
	s.Emit(uint32(v >> 32))
}

// EmitPacket appends a full packet: checkpoint hook, header, operands.
// This is the instrumented emission path used by packet builders; the
// hook is a no-op until SetCheckpoint wires an instrumenter in.
func (s *Stream) EmitPacket(op Opcode, operands ...uint32) {
	if s.checkpoint != nil && len(operands) != 0 {
		s.checkpoint(s, op, uint16(len(operands)))
	}
	s.Reserve(len(operands) + 1)
	// The header itself is not an operand; it must not consume a slot
	// of an armed checkpoint countdown.
	s.words = append(s.words, PacketHeader(op, uint16(len(operands))))
	for _, w := range operands {
		s.Emit(w)
	}
}

// SetCheckpoint attaches the instrumentation hook invoked by
// EmitPacket and by the pending-sync countdown.
func (s *Stream) SetCheckpoint(fn CheckpointFunc) { s.checkpoint = fn }

// MarkSync records an open "before" checkpoint and arms the operand
// countdown. Panics if a checkpoint is already open: at most one
// unclosed "before" may exist per stream.
func (s *Stream) MarkSync(operands uint32) {
	if s.syncOpen {
		panic("stream: checkpoint already pending")
	}
	s.syncOpen = true
	s.syncCountdown = operands
}

// SyncPending reports whether a "before" checkpoint awaits its close.
func (s *Stream) SyncPending() bool { return s.syncOpen }

// ClearSync closes the pending checkpoint marker.
func (s *Stream) ClearSync() {
	s.syncOpen = false
	s.syncCountdown = 0
}

// growCapacity doubles until need fits, starting from a small page.
func growCapacity(have, need int) int {
	if have == 0 {
		have = 64
	}
	for have < need {
		have *= 2
	}
	return have
}

// File: api/stream.go
// Package api defines the StreamWriter capability.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// StreamWriter is the slice of the command-stream builder the
// instrumenter needs: raw word emission, growth reservation, and the
// per-stream pairing marker for an open checkpoint.
//
// A StreamWriter is not safe for concurrent use; each stream is built
// by exactly one goroutine.
type StreamWriter interface {
	// Growable reports whether the backing storage may be extended.
	// Checkpoints are only inserted into growable streams, since a
	// fixed stream cannot guarantee room for the extra instructions.
	Growable() bool

	// Reserve guarantees space for n more words without reallocation
	// racing against the unit reading the stream.
	Reserve(n int)

	// Emit appends one command word.
	Emit(w uint32)

	// EmitQW appends a 64-bit value as two words, low word first.
	EmitQW(v uint64)

	// MarkSync records an open "before" checkpoint and arms a countdown
	// of operand words after which the closing checkpoint fires.
	// Panics if a checkpoint is already open on this stream.
	MarkSync(operands uint32)

	// SyncPending reports whether a "before" checkpoint is open and
	// awaiting its closing "after".
	SyncPending() bool

	// ClearSync closes the pending checkpoint marker.
	ClearSync()
}

// File: core/rendezvous/history.go
// Package rendezvous breadcrumb history ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// History keeps a bounded ring of the most recently observed unit
// counter values. The handshake itself uses a single counter, so a
// value overwritten between two polls is lost to the monitor; the ring
// preserves at least the observed tail of the sequence for forensics
// and debug probes.

package rendezvous

import (
	"sync"

	"github.com/eapache/queue"
)

// History is a bounded FIFO of observed breadcrumb values. Safe for
// one recording goroutine (the monitor) plus concurrent readers
// (debug probes).
type History struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
}

// DefaultHistoryDepth is the ring capacity used by sessions.
const DefaultHistoryDepth = 64

// NewHistory returns a ring keeping the last capacity values.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{q: queue.New(), capacity: capacity}
}

// Record appends an observed value, evicting the oldest when full.
func (h *History) Record(v uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.q.Add(v)
	for h.q.Length() > h.capacity {
		h.q.Remove()
	}
}

// Len returns the number of retained values.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.q.Length()
}

// Recent returns the retained values, oldest first.
func (h *History) Recent() []uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]uint32, h.q.Length())
	for i := range out {
		out[i] = h.q.Get(i).(uint32)
	}
	return out
}

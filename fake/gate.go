// File: fake/gate.go
// Package fake continue-gate double.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/crumbsync/api"
)

// Gate is a recording gate that releases every pause immediately.
// For pauses that must stay blocked until explicitly released, use
// adapters.ChannelGate.
type Gate struct {
	mu     sync.Mutex
	pauses []uint32
}

var _ api.ContinueGate = (*Gate)(nil)

// NewGate returns an auto-releasing gate.
func NewGate() *Gate { return &Gate{} }

// Await records the pause and returns.
func (g *Gate) Await(seqno uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pauses = append(g.pauses, seqno)
}

// Pauses returns every seqno the monitor paused on, in order.
func (g *Gate) Pauses() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]uint32(nil), g.pauses...)
}

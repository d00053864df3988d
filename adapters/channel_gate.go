// File: adapters/channel_gate.go
// Package adapters channel-backed continue gate.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ChannelGate replaces the console prompt with channels so the
// pause/resume protocol can be driven deterministically from tests or
// from an external control surface.

package adapters

import "github.com/momentics/crumbsync/api"

// ChannelGate publishes each pause on Paused and blocks until Release
// is called.
type ChannelGate struct {
	paused  chan uint32
	release chan struct{}
}

var _ api.ContinueGate = (*ChannelGate)(nil)

// NewChannelGate returns a gate whose pause announcement is buffered
// one deep, so Await never races a slow Paused receiver; the release
// side is a strict rendezvous.
func NewChannelGate() *ChannelGate {
	return &ChannelGate{
		paused:  make(chan uint32, 1),
		release: make(chan struct{}),
	}
}

// Paused yields the seqno of each pause as it begins.
func (g *ChannelGate) Paused() <-chan uint32 { return g.paused }

// Release unblocks one pending Await.
func (g *ChannelGate) Release() { g.release <- struct{}{} }

// Await announces the pause and blocks until released.
func (g *ChannelGate) Await(seqno uint32) {
	g.paused <- seqno
	<-g.release
}

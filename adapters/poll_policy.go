// File: adapters/poll_policy.go
// Package adapters poll policy implementations.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Three policies for the monitor loop. TightPoll is the default and
// preserves the original near-zero detection latency; AdaptivePoll
// spins first and then backs off to bound host CPU on long-idle
// sessions; SleepPoll is a plain fixed-period poll.

package adapters

import (
	"runtime"
	"time"

	"github.com/momentics/crumbsync/api"
)

// TightPoll re-polls immediately, yielding the processor between
// iterations so a single-core host can still schedule the unit side.
type TightPoll struct{}

var _ api.PollPolicy = TightPoll{}

// Idle yields and returns.
func (TightPoll) Idle(int) { runtime.Gosched() }

// SleepPoll sleeps a fixed period between polls.
type SleepPoll struct {
	Period time.Duration
}

var _ api.PollPolicy = SleepPoll{}

// Idle sleeps for the configured period.
func (p SleepPoll) Idle(int) { time.Sleep(p.Period) }

// AdaptivePoll spins for SpinLimit iterations after the last observed
// change, then degrades to sleeping Backoff per poll. Latency stays
// near zero while the unit is making progress; CPU cost is bounded
// once it stalls or goes quiet.
type AdaptivePoll struct {
	SpinLimit int
	Backoff   time.Duration
}

var _ api.PollPolicy = AdaptivePoll{}

// Idle spins below SpinLimit, sleeps above it.
func (p AdaptivePoll) Idle(spins int) {
	if spins < p.SpinLimit {
		runtime.Gosched()
		return
	}
	time.Sleep(p.Backoff)
}

// File: internal/session/options.go
// Package session defines functional options for Session construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package session

import (
	"github.com/momentics/crumbsync/api"
	"github.com/momentics/crumbsync/core/rendezvous"
)

// Option customizes session construction.
type Option func(*Session)

// WithReporter injects the breadcrumb reporter. Defaults to a UDP
// reporter aimed at the configured host:port.
func WithReporter(r api.Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithGate injects the operator continue-gate. Defaults to the
// interactive stdin prompt.
func WithGate(g api.ContinueGate) Option {
	return func(s *Session) {
		s.gate = g
	}
}

// WithPollPolicy injects the monitor poll policy. Defaults to the
// tight poll preserving near-zero detection latency.
func WithPollPolicy(p api.PollPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithProbes registers session state on a debug probe registry.
func WithProbes(p api.Probes) Option {
	return func(s *Session) {
		s.probes = p
	}
}

// WithHistoryDepth overrides the capacity of the observed-value ring.
func WithHistoryDepth(depth int) Option {
	return func(s *Session) {
		s.history = rendezvous.NewHistory(depth)
	}
}

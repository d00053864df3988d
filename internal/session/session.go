// File: internal/session/session.go
// Package session owns the breadcrumb session lifecycle.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Session ties together the parsed option string, the device's
// rendezvous counters, the monotonic breadcrumb index shared by
// concurrent stream builders, and the background monitor. At most one
// Session exists per device; it is created at device initialization
// only when a well-formed option string is present, and destroyed at
// device teardown.

package session

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/momentics/crumbsync/adapters"
	"github.com/momentics/crumbsync/api"
	"github.com/momentics/crumbsync/core/rendezvous"
	"github.com/momentics/crumbsync/internal/monitor"
	"github.com/momentics/crumbsync/transport"
)

// Session is the per-device breadcrumb state.
type Session struct {
	id       string
	cfg      Config
	counters *rendezvous.Counters
	history  *rendezvous.History

	// index is the monotonic breadcrumb counter, shared by all
	// goroutines building instrumented streams. The first accepted
	// checkpoint gets index 1.
	index atomic.Uint32

	reporter api.Reporter
	gate     api.ContinueGate
	policy   api.PollPolicy
	probes   api.Probes

	stop      atomic.Bool
	startOnce sync.Once
	started   atomic.Bool
	done      chan struct{}

	mon *monitor.Monitor
}

// New parses opt, zeroes the rendezvous counters and returns a
// Session ready to Start. The counters belong to the device; the
// session only borrows them.
func New(opt string, counters *rendezvous.Counters, opts ...Option) (*Session, error) {
	cfg, err := Parse(opt)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		counters: counters,
		history:  rendezvous.NewHistory(rendezvous.DefaultHistoryDepth),
		gate:     adapters.NewStdioGate(),
		policy:   adapters.TightPoll{},
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	counters.Reset()
	return s, nil
}

// ID returns the session identifier used for log correlation.
func (s *Session) ID() string { return s.id }

// Config returns the parsed breadcrumb option.
func (s *Session) Config() Config { return s.cfg }

// Counters returns the device's rendezvous counters.
func (s *Session) Counters() *rendezvous.Counters { return s.counters }

// History returns the ring of recently observed breadcrumb values.
func (s *Session) History() *rendezvous.History { return s.history }

// NextIndex atomically advances and returns the breadcrumb index.
func (s *Session) NextIndex() uint32 { return s.index.Add(1) }

// Index returns the current breadcrumb index without advancing it.
func (s *Session) Index() uint32 { return s.index.Load() }

// Stopped reports whether teardown has begun. The instrumenter treats
// a stopped session as absent.
func (s *Session) Stopped() bool { return s.stop.Load() }

// Done is closed once the monitor goroutine has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Start launches the monitor goroutine. Idempotent. If no reporter
// was injected, a UDP reporter is opened toward the configured
// destination; failure to open it is logged and the monitor never
// runs, leaving the feature inert in exactly the way a later send
// failure would.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
	})
}

func (s *Session) run() {
	defer close(s.done)

	rep := s.reporter
	if rep == nil {
		var err error
		rep, err = transport.NewUDPReporter(s.cfg.Host, s.cfg.Port)
		if err != nil {
			log.Printf("crumbsync: session %s: %v", s.id, err)
			return
		}
	}

	s.mon = monitor.New(monitor.Config{
		Counters:     s.counters,
		History:      s.history,
		Reporter:     rep,
		Gate:         s.gate,
		Policy:       s.policy,
		Breakpoint:   s.cfg.Breakpoint,
		RequiredHits: s.cfg.BreakpointHits,
		Stop:         &s.stop,
	})
	s.registerProbes()
	s.mon.Run()
}

// Stop requests teardown and waits for the monitor to exit.
// Idempotent; a second call returns immediately. The wait does not
// preempt an in-progress operator pause: a pending gate must resolve
// before the monitor can observe the stop flag.
func (s *Session) Stop() {
	if s.stop.Swap(true) {
		return
	}
	if s.started.Load() {
		<-s.done
	}
}

// registerProbes exposes session state on the injected probe
// registry, if any.
func (s *Session) registerProbes() {
	if s.probes == nil {
		return
	}
	mon := s.mon
	s.probes.Register("breadcrumb.session", func() any { return s.id })
	s.probes.Register("breadcrumb.index", func() any { return s.Index() })
	s.probes.Register("breadcrumb.last", func() any { return mon.Last() })
	s.probes.Register("breadcrumb.hits", func() any { return mon.Hits() })
	s.probes.Register("breadcrumb.recent", func() any { return s.history.Recent() })
}

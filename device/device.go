// File: device/device.go
// Package device models the engine device owning the breadcrumb state.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A Device owns the mapped global region holding the rendezvous
// counters and, optionally, one breadcrumb session. The session is an
// explicit optional member constructed and destroyed strictly by the
// device lifecycle hooks, never ambient state.

package device

import (
	"log"

	"github.com/momentics/crumbsync/core/rendezvous"
	"github.com/momentics/crumbsync/core/stream"
	"github.com/momentics/crumbsync/instrument"
	"github.com/momentics/crumbsync/internal/session"
)

// Device is the host-side handle of one processing unit.
type Device struct {
	counters *rendezvous.Counters

	// crumbs is nil whenever the feature is disabled or its
	// configuration was rejected; every instrumentation entry point
	// treats that as "do nothing".
	crumbs *session.Session
	inst   *instrument.Instrumenter
}

// New returns a device whose global region is mapped at baseAddr in
// the unit's address space.
func New(baseAddr uint64) *Device {
	return &Device{counters: rendezvous.NewCounters(baseAddr)}
}

// Counters returns the device's rendezvous counters.
func (d *Device) Counters() *rendezvous.Counters { return d.counters }

// BreadcrumbsInit creates and starts the breadcrumb session from opt.
// Called once during device initialization. An empty opt leaves the
// feature disabled; a malformed opt is logged and likewise leaves the
// device without a session, so the driver proceeds uninstrumented.
func (d *Device) BreadcrumbsInit(opt string, opts ...session.Option) {
	if opt == "" {
		return
	}
	s, err := session.New(opt, d.counters, opts...)
	if err != nil {
		log.Printf("crumbsync: %v", err)
		return
	}
	d.crumbs = s
	d.inst = instrument.New(s)
	s.Start()
}

// BreadcrumbsFinish stops the session and releases it. Called during
// device teardown; idempotent, and a no-op when no session exists.
func (d *Device) BreadcrumbsFinish() {
	if d.crumbs == nil {
		return
	}
	d.crumbs.Stop()
	d.crumbs = nil
	d.inst = nil
}

// Breadcrumbs returns the active session, or nil when disabled.
func (d *Device) Breadcrumbs() *session.Session { return d.crumbs }

// Instrumenter returns the checkpoint instrumenter, or nil when the
// feature is disabled.
func (d *Device) Instrumenter() *instrument.Instrumenter { return d.inst }

// InstrumentStream wires the device's instrumenter into a stream
// under construction. Without a session the stream is left untouched.
func (d *Device) InstrumentStream(s *stream.Stream) {
	if d.inst == nil {
		return
	}
	d.inst.Attach(s)
}

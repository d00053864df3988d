// File: fake/reporter.go
// Package fake breadcrumb reporter double.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"

	"github.com/momentics/crumbsync/api"
)

// Reporter is a fake implementation of api.Reporter for testing.
type Reporter struct {
	mu     sync.Mutex
	sent   []uint32
	fail   map[uint32]error
	closed bool

	// OnReport, when set, runs inside each successful Report before
	// the value is recorded. Tests use it to observe interleaving
	// with the acknowledgment counter. Set before the monitor starts.
	OnReport func(seqno uint32)
}

var _ api.Reporter = (*Reporter)(nil)

// NewReporter creates a reporter that accepts everything.
func NewReporter() *Reporter {
	return &Reporter{fail: make(map[uint32]error)}
}

// FailOn makes Report return err for the given seqno.
func (r *Reporter) FailOn(seqno uint32, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[seqno] = err
}

// Report implements api.Reporter.
func (r *Reporter) Report(seqno uint32) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return api.ErrReporterClosed
	}
	if err, ok := r.fail[seqno]; ok {
		r.mu.Unlock()
		return err
	}
	hook := r.OnReport
	r.sent = append(r.sent, seqno)
	r.mu.Unlock()

	if hook != nil {
		hook(seqno)
	}
	return nil
}

// Close implements api.Reporter. Idempotent.
func (r *Reporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Sent returns a copy of all reported values in order.
func (r *Reporter) Sent() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.sent...)
}

// Closed reports whether Close was called.
func (r *Reporter) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

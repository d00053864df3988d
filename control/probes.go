// control/probes.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug probe registry. A running breadcrumb session
// registers its state here for out-of-band inspection while the unit
// is wedged.

package control

import (
	"runtime"
	"sync"

	"github.com/momentics/crumbsync/api"
)

// ProbeRegistry holds named probe functions.
type ProbeRegistry struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Probes = (*ProbeRegistry)(nil)

// NewProbeRegistry creates a probe registry.
func NewProbeRegistry() *ProbeRegistry {
	return &ProbeRegistry{probes: make(map[string]func() any)}
}

// Register inserts a named debug hook.
func (pr *ProbeRegistry) Register(name string, fn func() any) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.probes[name] = fn
}

// Dump returns output of all probes.
func (pr *ProbeRegistry) Dump() map[string]any {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range pr.probes {
		out[k] = fn()
	}
	return out
}

// RegisterPlatformProbes adds host-level probes useful alongside the
// breadcrumb state.
func RegisterPlatformProbes(pr *ProbeRegistry) {
	pr.Register("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	pr.Register("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}

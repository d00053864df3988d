// File: api/probes.go
// Package api defines the Probes interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Probes is a registry of named debug hooks. The breadcrumb session
// registers its runtime state here (current index, last observed
// value, breakpoint hits) for out-of-band inspection.
type Probes interface {
	// Register inserts a named debug hook, replacing any previous one.
	Register(name string, fn func() any)

	// Dump returns the output of all registered hooks.
	Dump() map[string]any
}

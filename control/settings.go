// control/settings.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe settings store with YAML file loading and reload
// propagation. Device initialization reads the breadcrumb option from
// here; the option may equally come from an environment variable or
// any other string source, the store just gives deployments a file-
// backed one.

package control

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// SettingsKeyBreadcrumbs is the settings key holding the breadcrumb
// option string (HOST:PORT,break=BREAKPOINT:HITS).
const SettingsKeyBreadcrumbs = "breadcrumbs"

// Settings is a dynamic key/value store with snapshot and listener
// support.
type Settings struct {
	mu        sync.RWMutex
	values    map[string]string
	listeners []func()
}

// NewSettings returns an empty store.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

// LoadFile merges a YAML mapping of string keys to string values into
// the store and notifies listeners.
func (s *Settings) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("control: read settings: %w", err)
	}
	var parsed map[string]string
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("control: parse settings %s: %w", path, err)
	}
	s.mu.Lock()
	for k, v := range parsed {
		s.values[k] = v
	}
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// Set stores one value and notifies listeners.
func (s *Settings) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Get returns the value for key, or "" when unset. An absent
// breadcrumb option disables the feature entirely.
func (s *Settings) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Breadcrumbs returns the breadcrumb option string, if configured.
func (s *Settings) Breadcrumbs() string {
	return s.Get(SettingsKeyBreadcrumbs)
}

// Snapshot returns a copy of all settings.
func (s *Settings) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// OnReload registers a listener invoked after every Set or LoadFile.
func (s *Settings) OnReload(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

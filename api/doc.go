// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package api defines the public abstraction layer of crumbsync:
// the command-stream writer capability consumed by the instrumenter,
// the breadcrumb reporter transport, the operator continue-gate, the
// monitor poll policy, and the debug probe registry.
//
// All interfaces are dependency-free; concrete implementations live in
// core/, internal/, transport/ and adapters/.
package api

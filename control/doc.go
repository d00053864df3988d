// Package control
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package control is the out-of-band surface of crumbsync: the
// settings store feeding device initialization and the debug probe
// registry through which a running session exposes its breadcrumb
// state (current index, last observed value, breakpoint hits, recent
// history).
package control

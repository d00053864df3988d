// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values for the crumbsync library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrReporterClosed indicates a send on a closed reporter.
	ErrReporterClosed = fmt.Errorf("reporter is closed")

	// ErrMalformedConfig indicates the breadcrumb option string does
	// not match HOST:PORT,break=BREAKPOINT:HITS.
	ErrMalformedConfig = fmt.Errorf("malformed breadcrumb config")

	// ErrStreamFixed indicates an operation that requires a growable
	// stream was attempted on fixed backing storage.
	ErrStreamFixed = fmt.Errorf("stream storage is not growable")
)

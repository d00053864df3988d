// File: internal/session/config.go
// Package session breadcrumb option parsing.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The breadcrumb option string has the grammar
//
//	HOST:PORT,break=BREAKPOINT:HITS
//
// with HOST a dotted IPv4 address, PORT a decimal port, BREAKPOINT and
// HITS unsigned decimals. BREAKPOINT may be -1 to emit every
// checkpoint without ever pausing, the usual setting for the first
// capture run.

package session

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/momentics/crumbsync/api"
)

// NoBreakpoint is the parsed form of "break=-1": every checkpoint is
// emitted and the operator pause never triggers.
const NoBreakpoint = ^uint32(0)

// Config is the parsed breadcrumb option.
type Config struct {
	Host           string
	Port           int
	Breakpoint     uint32
	BreakpointHits uint32
}

// Parse validates opt against the breadcrumb grammar.
func Parse(opt string) (Config, error) {
	addr, brk, ok := strings.Cut(opt, ",")
	if !ok {
		return Config{}, fmt.Errorf("%w: missing break section in %q", api.ErrMalformedConfig, opt)
	}

	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return Config{}, fmt.Errorf("%w: missing port in %q", api.ErrMalformedConfig, opt)
	}
	if ip := net.ParseIP(host); ip == nil || ip.To4() == nil {
		return Config{}, fmt.Errorf("%w: host %q is not a dotted address", api.ErrMalformedConfig, host)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Config{}, fmt.Errorf("%w: bad port %q", api.ErrMalformedConfig, portStr)
	}

	expr, ok := strings.CutPrefix(brk, "break=")
	if !ok {
		return Config{}, fmt.Errorf("%w: expected break=BREAKPOINT:HITS, got %q", api.ErrMalformedConfig, brk)
	}
	bpStr, hitsStr, ok := strings.Cut(expr, ":")
	if !ok {
		return Config{}, fmt.Errorf("%w: missing hit count in %q", api.ErrMalformedConfig, brk)
	}

	var breakpoint uint32
	if bpStr == "-1" {
		breakpoint = NoBreakpoint
	} else {
		bp, err := strconv.ParseUint(bpStr, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("%w: bad breakpoint %q", api.ErrMalformedConfig, bpStr)
		}
		breakpoint = uint32(bp)
	}

	hits, err := strconv.ParseUint(hitsStr, 10, 32)
	if err != nil {
		return Config{}, fmt.Errorf("%w: bad hit count %q", api.ErrMalformedConfig, hitsStr)
	}

	return Config{
		Host:           host,
		Port:           port,
		Breakpoint:     breakpoint,
		BreakpointHits: uint32(hits),
	}, nil
}

// Addr returns the monitor destination as host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

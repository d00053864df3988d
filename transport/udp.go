// File: transport/udp.go
// Package transport implements the breadcrumb wire protocol.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One datagram per observed breadcrumb: 4-byte payload, big-endian
// unsigned 32-bit index. No acknowledgment, no retransmission; the
// remote listener is assumed to be `crumbwatch` or any raw UDP sink.
//
// On Linux the socket is a raw AF_INET/SOCK_DGRAM descriptor driven
// through golang.org/x/sys; on other platforms a connected net.Conn
// stands in. See udp_linux.go and udp_portable.go.

package transport

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"github.com/momentics/crumbsync/api"
)

// dgramSock is the platform-specific datagram primitive.
type dgramSock interface {
	send(p []byte) error
	close() error
}

// UDPReporter sends breadcrumb datagrams to a fixed destination.
// Safe for concurrent use, though the monitor is its only caller in
// practice.
type UDPReporter struct {
	mu     sync.Mutex
	sock   dgramSock
	closed bool
}

var _ api.Reporter = (*UDPReporter)(nil)

// NewUDPReporter opens a datagram socket aimed at host:port. host
// must be a dotted IPv4 address.
func NewUDPReporter(host string, port int) (*UDPReporter, error) {
	ip := net.ParseIP(host)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("transport: %q is not a dotted address", host)
	}
	sock, err := openDatagram(ip.To4(), port)
	if err != nil {
		return nil, fmt.Errorf("transport: open datagram socket: %w", err)
	}
	return &UDPReporter{sock: sock}, nil
}

// Report sends one 4-byte big-endian datagram.
func (r *UDPReporter) Report(seqno uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return api.ErrReporterClosed
	}
	var payload [4]byte
	binary.BigEndian.PutUint32(payload[:], seqno)
	if err := r.sock.send(payload[:]); err != nil {
		return fmt.Errorf("transport: send breadcrumb %d: %w", seqno, err)
	}
	return nil
}

// Close releases the socket. Idempotent.
func (r *UDPReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.sock.close()
}

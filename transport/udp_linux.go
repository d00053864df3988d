// File: transport/udp_linux.go
// Package transport Linux datagram socket.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw AF_INET/SOCK_DGRAM socket. Bypassing the net stack keeps the
// send path a single sendto syscall with no deadline machinery, which
// matters on the hot edge of the monitor loop.

//go:build linux

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

type rawDgram struct {
	fd int
	sa *unix.SockaddrInet4
}

func openDatagram(ip4 net.IP, port int) (dgramSock, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip4)
	return &rawDgram{fd: fd, sa: sa}, nil
}

func (s *rawDgram) send(p []byte) error {
	return unix.Sendto(s.fd, p, 0, s.sa)
}

func (s *rawDgram) close() error {
	return unix.Close(s.fd)
}

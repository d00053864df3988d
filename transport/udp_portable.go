// File: transport/udp_portable.go
// Package transport portable datagram socket.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

//go:build !linux

package transport

import (
	"net"
	"strconv"
)

type netDgram struct {
	conn net.Conn
}

func openDatagram(ip4 net.IP, port int) (dgramSock, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(ip4.String(), strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return &netDgram{conn: conn}, nil
}

func (s *netDgram) send(p []byte) error {
	_, err := s.conn.Write(p)
	return err
}

func (s *netDgram) close() error {
	return s.conn.Close()
}

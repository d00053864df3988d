// File: adapters/console_gate.go
// Package adapters bridges api interfaces to concrete environments.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ConsoleGate is the classic interactive gate: a blocking textual
// prompt that releases on a literal 'y' byte and swallows everything
// else. It is the default wired by device initialization.

package adapters

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/momentics/crumbsync/api"
)

// ConsoleGate blocks on a textual prompt until the operator types y.
type ConsoleGate struct {
	in  *bufio.Reader
	out io.Writer
}

var _ api.ContinueGate = (*ConsoleGate)(nil)

// NewConsoleGate returns a gate reading from in and prompting on out.
func NewConsoleGate(in io.Reader, out io.Writer) *ConsoleGate {
	return &ConsoleGate{in: bufio.NewReader(in), out: out}
}

// NewStdioGate returns a gate on the process's stdin/stdout.
func NewStdioGate() *ConsoleGate {
	return NewConsoleGate(os.Stdin, os.Stdout)
}

// Await prompts and blocks until a 'y' byte arrives. Any other input
// byte keeps blocking. Exhausting the input also releases the pause;
// a gate that can never be released would otherwise wedge teardown
// with no operator left to type.
func (g *ConsoleGate) Await(seqno uint32) {
	fmt.Fprintf(g.out, "unit is on breadcrumb %d, continue? ", seqno)
	for {
		b, err := g.in.ReadByte()
		if err != nil || b == 'y' {
			return
		}
	}
}

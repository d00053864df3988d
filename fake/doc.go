// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development. The fake Unit
// interprets instrumented command words and performs the unit side of
// the rendezvous, so the full checkpoint handshake can run without
// hardware; the fake Reporter records datagrams and injects send
// failures.
package fake

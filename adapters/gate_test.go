package adapters

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConsoleGateReleasesOnY(t *testing.T) {
	var out strings.Builder
	gate := NewConsoleGate(strings.NewReader("nope...y and trailing"), &out)

	done := make(chan struct{})
	go func() {
		gate.Await(7)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("gate did not release on 'y'")
	}
	if !strings.Contains(out.String(), "breadcrumb 7") {
		t.Fatalf("prompt missing seqno: %q", out.String())
	}
}

func TestConsoleGateSwallowsOtherBytes(t *testing.T) {
	var out strings.Builder
	gate := NewConsoleGate(strings.NewReader("nnnnn"), &out)
	// Input exhausted without a 'y': the gate gives up rather than
	// spinning on a closed source.
	gate.Await(1)
}

func TestChannelGateBlocksUntilRelease(t *testing.T) {
	gate := NewChannelGate()

	released := make(chan struct{})
	go func() {
		gate.Await(3)
		close(released)
	}()

	select {
	case seqno := <-gate.Paused():
		if seqno != 3 {
			t.Fatalf("paused on %d, want 3", seqno)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Await never announced the pause")
	}

	select {
	case <-released:
		t.Fatal("Await returned before Release")
	case <-time.After(20 * time.Millisecond):
	}

	gate.Release()
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("Await did not return after Release")
	}
}

func TestChannelGateSequentialPauses(t *testing.T) {
	gate := NewChannelGate()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		gate.Await(1)
		gate.Await(2)
	}()

	for want := uint32(1); want <= 2; want++ {
		select {
		case got := <-gate.Paused():
			if got != want {
				t.Fatalf("pause %d, want %d", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("missing pause")
		}
		gate.Release()
	}
	wg.Wait()
}

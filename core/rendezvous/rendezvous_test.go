package rendezvous

import (
	"sync"
	"testing"
	"time"
)

func TestFieldAddresses(t *testing.T) {
	c := NewCounters(0x4000_0000)
	if got := c.UnitSeqnoAddr(); got != 0x4000_0000 {
		t.Fatalf("unit seqno addr = %#x", got)
	}
	if got := c.HostSeqnoAddr(); got != 0x4000_0004 {
		t.Fatalf("host seqno addr = %#x", got)
	}
}

func TestResetZeroesBothFields(t *testing.T) {
	c := NewCounters(0)
	c.StoreUnit(7)
	c.StoreHost(7)
	c.Reset()
	if c.LoadUnit() != 0 || c.LoadHost() != 0 {
		t.Fatalf("reset left %d/%d", c.LoadUnit(), c.LoadHost())
	}
}

// One writer per field, concurrent reader on the other side: the
// reader must observe a monotonically non-decreasing sequence and
// eventually the final value.
func TestSingleWriterVisibility(t *testing.T) {
	c := NewCounters(0)
	const final = 10000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := uint32(1); v <= final; v++ {
			c.StoreUnit(v)
		}
	}()

	deadline := time.Now().Add(5 * time.Second)
	last := uint32(0)
	for last != final {
		if time.Now().After(deadline) {
			t.Fatalf("reader stuck at %d", last)
		}
		cur := c.LoadUnit()
		if cur < last {
			t.Fatalf("observed regression %d -> %d", last, cur)
		}
		last = cur
	}
	wg.Wait()
}

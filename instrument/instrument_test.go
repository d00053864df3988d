package instrument

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/crumbsync/core/rendezvous"
	"github.com/momentics/crumbsync/core/stream"
	"github.com/momentics/crumbsync/fake"
	"github.com/momentics/crumbsync/internal/session"
)

const testBase = 0x4000_0000

// newTestInstrumenter builds a session that is never started: emission
// decisions need only the config and the index counter.
func newTestInstrumenter(t *testing.T, opt string) (*Instrumenter, *session.Session) {
	t.Helper()
	sess, err := session.New(opt, rendezvous.NewCounters(testBase),
		session.WithReporter(fake.NewReporter()),
		session.WithGate(fake.NewGate()),
	)
	require.NoError(t, err)
	return New(sess), sess
}

// checkpointWords is the exact instruction sequence one checkpoint
// appends for idx: three drains, the progress write, the ack wait.
func checkpointWords(c *rendezvous.Counters, idx uint32) []uint32 {
	return []uint32{
		stream.PacketHeader(stream.OpWaitMemWrites, 0),
		stream.PacketHeader(stream.OpWaitForIdle, 0),
		stream.PacketHeader(stream.OpWaitForFetch, 0),

		stream.PacketHeader(stream.OpMemWrite, stream.MemWriteOperands),
		uint32(c.UnitSeqnoAddr()),
		uint32(c.UnitSeqnoAddr() >> 32),
		idx,

		stream.PacketHeader(stream.OpWaitRegMem, stream.WaitRegMemOperands),
		stream.WaitFuncEqual | stream.WaitPollMemory,
		uint32(c.HostSeqnoAddr()),
		uint32(c.HostSeqnoAddr() >> 32),
		idx,
		^uint32(0),
		stream.WaitDelayCycles,
	}
}

func TestBeforeEmitsExactSequence(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")
	cs := stream.New()

	in.Checkpoint(cs, stream.OpDrawIndexed, 3)

	assert.Equal(t, checkpointWords(sess.Counters(), 1), cs.Words())
	assert.True(t, cs.SyncPending(), "before call must leave the pairing marker open")
}

func TestEmitPacketBracketsEligiblePacket(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")
	cs := stream.New()
	in.Attach(cs)

	cs.EmitPacket(stream.OpDrawIndirect, 0xA, 0xB)

	var want []uint32
	want = append(want, checkpointWords(sess.Counters(), 1)...)
	want = append(want, stream.PacketHeader(stream.OpDrawIndirect, 2), 0xA, 0xB)
	want = append(want, checkpointWords(sess.Counters(), 2)...)

	assert.Equal(t, want, cs.Words())
	assert.False(t, cs.SyncPending(), "pairing marker closed after the packet")
	assert.Equal(t, uint32(2), sess.Index())
}

func TestNonGrowableStreamSkipped(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")
	cs := stream.NewFixed(64)

	in.Checkpoint(cs, stream.OpDrawIndexed, 3)

	assert.Zero(t, cs.Len(), "fixed streams are silently skipped")
	assert.Zero(t, sess.Index(), "a skipped stream consumes no index")
}

func TestAllowListFiltersOpcodes(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")

	rejected := []stream.Opcode{stream.OpNop, stream.OpMemWrite, stream.OpWaitForIdle, stream.OpWaitRegMem}
	for _, op := range rejected {
		cs := stream.New()
		in.Checkpoint(cs, op, 4)
		assert.Zero(t, cs.Len(), "opcode %#x must be ignored", op)
	}
	assert.Zero(t, sess.Index(), "ignored calls consume no index")

	accepted := []stream.Opcode{
		stream.OpDispatch, stream.OpDispatchIndirect, stream.OpDrawIndexed,
		stream.OpDrawIndexedOffset, stream.OpDrawIndirect, stream.OpDrawIndexedIndirect,
		stream.OpDrawIndirectMulti, stream.OpDrawAuto, stream.OpBlit,
	}
	for _, op := range accepted {
		cs := stream.New()
		in.Checkpoint(cs, op, 4)
		assert.NotZero(t, cs.Len(), "opcode %#x must be instrumented", op)
	}
	assert.Equal(t, uint32(len(accepted)), sess.Index())
}

func TestStoppedSessionIsInert(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")
	sess.Stop()

	cs := stream.New()
	in.Checkpoint(cs, stream.OpDrawIndexed, 3)

	assert.Zero(t, cs.Len())
	assert.Zero(t, sess.Index())
}

func TestNilSessionIsInert(t *testing.T) {
	in := New(nil)
	cs := stream.New()
	in.Checkpoint(cs, stream.OpDrawIndexed, 3)
	assert.Zero(t, cs.Len())
}

func TestBelowBreakpointSkipsEmissionButAdvancesIndex(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=5:1")
	cs := stream.New()
	in.Attach(cs)

	// A skipped "before" arms no pairing marker, so no closing
	// checkpoint fires either: each packet below the breakpoint
	// consumes exactly one index and adds no instructions.
	cs.EmitPacket(stream.OpDrawIndexed, 1, 2)
	cs.EmitPacket(stream.OpDispatch, 3, 4)
	cs.EmitPacket(stream.OpDrawAuto, 5, 6)
	cs.EmitPacket(stream.OpBlit, 7, 8)
	assert.Equal(t, uint32(4), sess.Index())
	assert.Equal(t, 12, cs.Len(), "four bare packets only")
	assert.False(t, cs.SyncPending(), "skipped before must not arm the pairing marker")

	// Index 5 reaches the region of interest: the next packet is
	// bracketed on both sides and consumes two indices.
	before := cs.Len()
	cs.EmitPacket(stream.OpBlit, 9)
	assert.Equal(t, uint32(6), sess.Index())
	assert.Equal(t, before+2+2*len(checkpointWords(sess.Counters(), 0)), cs.Len())
	assert.False(t, cs.SyncPending())
}

func TestAfterWithoutBeforePanics(t *testing.T) {
	in, _ := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")
	cs := stream.New()

	assert.Panics(t, func() {
		in.Checkpoint(cs, stream.OpNop, 0)
	}, "an unpaired closing checkpoint is a caller bug")
}

// Concurrent stream builders share one index; every emitted progress
// write must carry a distinct value.
func TestConcurrentBuildersGetDistinctIndices(t *testing.T) {
	in, sess := newTestInstrumenter(t, "127.0.0.1:9000,break=-1:0")

	const builders = 8
	const packets = 50

	streams := make([]*stream.Stream, builders)
	var wg sync.WaitGroup
	for i := range streams {
		cs := stream.New()
		in.Attach(cs)
		streams[i] = cs
		wg.Add(1)
		go func(cs *stream.Stream) {
			defer wg.Done()
			for p := 0; p < packets; p++ {
				cs.EmitPacket(stream.OpDispatch, uint32(p))
			}
		}(cs)
	}
	wg.Wait()

	require.Equal(t, uint32(2*builders*packets), sess.Index())

	seen := make(map[uint32]bool)
	memWriteHdr := stream.PacketHeader(stream.OpMemWrite, stream.MemWriteOperands)
	for _, cs := range streams {
		words := cs.Words()
		for i, w := range words {
			if w == memWriteHdr && i+3 < len(words) {
				idx := words[i+3]
				assert.False(t, seen[idx], "index %d emitted twice", idx)
				seen[idx] = true
			}
		}
	}
	assert.Len(t, seen, 2*builders*packets)
}

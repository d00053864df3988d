package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/crumbsync/api"
)

func TestParseWellFormed(t *testing.T) {
	cfg, err := Parse("127.0.0.1:9000,break=5:2")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, uint32(5), cfg.Breakpoint)
	assert.Equal(t, uint32(2), cfg.BreakpointHits)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
}

func TestParseNoBreakpointSentinel(t *testing.T) {
	cfg, err := Parse("10.0.0.2:1234,break=-1:0")
	require.NoError(t, err)

	assert.Equal(t, NoBreakpoint, cfg.Breakpoint)
	assert.Equal(t, uint32(0), cfg.BreakpointHits)
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name string
		opt  string
	}{
		{"empty", ""},
		{"missing break section", "127.0.0.1:9000"},
		{"missing port", "127.0.0.1,break=1:1"},
		{"hostname not dotted", "localhost:9000,break=1:1"},
		{"ipv6 host", "::1:9000,break=1:1"},
		{"port not decimal", "127.0.0.1:ninety,break=1:1"},
		{"port zero", "127.0.0.1:0,break=1:1"},
		{"port out of range", "127.0.0.1:70000,break=1:1"},
		{"missing break keyword", "127.0.0.1:9000,stop=1:1"},
		{"missing hits", "127.0.0.1:9000,break=5"},
		{"breakpoint not numeric", "127.0.0.1:9000,break=five:2"},
		{"negative breakpoint other than -1", "127.0.0.1:9000,break=-2:2"},
		{"hits not numeric", "127.0.0.1:9000,break=5:two"},
		{"breakpoint overflow", "127.0.0.1:9000,break=4294967296:1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrMalformedConfig)
		})
	}
}

// A rejected option must leave no session behind; New surfaces the
// parse error without touching the counters' lifecycle.
func TestNewRejectsMalformed(t *testing.T) {
	s, err := New("garbage", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrMalformedConfig)
	assert.Nil(t, s)
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/hwbench"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var clk, rst, cnt, carry, done uint64
	w := NewWriter()
	w.Register([]string{"top"}, "clock", 1, func() uint64 { return clk })
	w.Register([]string{"top"}, "reset", 1, func() uint64 { return rst })
	w.Register([]string{"top"}, "count", 4, func() uint64 { return cnt })
	w.Register([]string{"top", "inc_0"}, "c[0]", 1, func() uint64 { return carry })
	w.Register([]string{"top"}, "done", 1, func() uint64 { return done })

	path := filepath.Join(t.TempDir(), "timer.vcd")
	require.NoError(t, w.Open(path))

	steps := []struct {
		t                          hwbench.Time
		clk, rst, cnt, carry, done uint64
	}{
		{1, 1, 1, 0, 0, 0},
		{2, 0, 1, 0, 0, 0},
		{3, 1, 0, 1, 1, 0},
		{4, 0, 0, 1, 1, 0},
		{5, 1, 0, 2, 0, 0},
		// count is truncated to 4 bits and does not change.
		{6, 0, 0, 0x12, 0, 1},
	}
	for _, s := range steps {
		clk, rst, cnt, carry, done = s.clk, s.rst, s.cnt, s.carry, s.done
		require.NoError(t, w.Dump(s.t))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "timer", data)
}

func TestWriter_timescale(t *testing.T) {
	var v uint64 = 0xbeef
	w := NewWriter()
	w.Timescale = "10ps"
	w.Register(nil, "bus", 16, func() uint64 { return v })

	path := filepath.Join(t.TempDir(), "bus.vcd")
	require.NoError(t, w.Open(path))
	require.NoError(t, w.Dump(0))
	v = 1
	require.NoError(t, w.Dump(10))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "bus", data)
}

func TestWriter_errors(t *testing.T) {
	w := NewWriter()
	w.Register([]string{"top"}, "a", 1, func() uint64 { return 0 })
	assert.EqualError(t, w.Dump(1), "vcd: not open")
	assert.EqualError(t, w.Close(), "vcd: not open")

	assert.Error(t, w.Open(filepath.Join(t.TempDir(), "missing", "x.vcd")))

	path := filepath.Join(t.TempDir(), "x.vcd")
	require.NoError(t, w.Open(path))
	assert.EqualError(t, w.Open(path), "vcd: already open")
	require.NoError(t, w.Dump(2))
	assert.EqualError(t, w.Dump(2), "vcd: time 2 not after 2")
	assert.EqualError(t, w.Dump(1), "vcd: time 1 not after 2")
	require.NoError(t, w.Dump(3))
	require.NoError(t, w.Close())
	assert.EqualError(t, w.Close(), "vcd: not open")
}

func TestWriter_headerError(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full")
	}
	w := NewWriter()
	w.Register([]string{"top"}, "a", 1, func() uint64 { return 0 })
	err := w.Open("/dev/full")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vcd: write header")
	assert.Nil(t, w.f)
	assert.EqualError(t, w.Close(), "vcd: not open")

	// the writer can be opened again
	path := filepath.Join(t.TempDir(), "x.vcd")
	require.NoError(t, w.Open(path))
	require.NoError(t, w.Dump(1))
	require.NoError(t, w.Close())
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "!", identifier(0))
	assert.Equal(t, "~", identifier(93))
	assert.Equal(t, "!!", identifier(94))
	assert.Equal(t, "\"!", identifier(95))

	seen := make(map[string]bool)
	for i := 0; i < 94*94+94; i++ {
		id := identifier(i)
		require.False(t, seen[id], "duplicate identifier %q for %d", id, i)
		seen[id] = true
	}
}

func TestReference(t *testing.T) {
	assert.Equal(t, "q [3]", reference("q[3]", 1))
	assert.Equal(t, "count [3:0]", reference("count", 4))
	assert.Equal(t, "done", reference("done", 1))
	assert.Equal(t, "a_b", reference("a b", 1))
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides test doubles and utility functions for testing
// designs and harnesses.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/circuit"
	"github.com/stretchr/testify/require"
)

// exhaustive input testing is done up to this many input bits.
const maxExhaustive = 12

// inputs returns the driven ports of d, clock excluded.
func inputs(d *circuit.DUT) []hwbench.Port {
	var in []hwbench.Port
	for _, p := range d.Ports() {
		if p.Dir == hwbench.Driven && p.Name != circuit.Clock {
			in = append(in, p)
		}
	}
	return in
}

func outputs(d *circuit.DUT) []hwbench.Port {
	var out []hwbench.Port
	for _, p := range d.Ports() {
		if p.Dir == hwbench.Observed {
			out = append(out, p)
		}
	}
	return out
}

// ComparePart takes two parts and compares their outputs given the same inputs.
// Both parts must have the same Input/Output interface.
//
// Inputs are tested exhaustively if they total at most 12 bits. Otherwise,
// 4096 random input combinations are tested.
//
func ComparePart(t testing.TB, part1, part2 circuit.NewPartFn) {
	t.Helper()

	d1, err := circuit.NewDUT(part1)()
	require.NoError(t, err)
	d2, err := circuit.NewDUT(part2)()
	require.NoError(t, err)
	require.Equal(t, d1.Ports(), d2.Ports(), "port mismatch")

	in, out := inputs(d1), outputs(d1)
	bits := 0
	for _, p := range in {
		bits += p.Width
	}

	errString := func(vals []uint64, o hwbench.Port, ex, got uint64) string {
		var b strings.Builder
		for i, p := range in {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%#x", p.Name, vals[i])
		}
		return fmt.Sprintf("\nExpected %s => %s=%#x\nGot %#x", b.String(), o.Name, ex, got)
	}

	vals := make([]uint64, len(in))
	check := func() {
		for i, p := range in {
			require.NoError(t, d1.Set(p.Name, vals[i]))
			require.NoError(t, d2.Set(p.Name, vals[i]))
		}
		require.NoError(t, d1.Eval())
		require.NoError(t, d2.Eval())
		for _, o := range out {
			v1, err := d1.Get(o.Name)
			require.NoError(t, err)
			v2, err := d2.Get(o.Name)
			require.NoError(t, err)
			if v1 != v2 {
				t.Fatal(errString(vals, o, v1, v2))
			}
		}
	}

	start := time.Now()
	if bits <= maxExhaustive {
		for n := uint64(0); n < 1<<uint(bits); n++ {
			shift := uint(0)
			for i, p := range in {
				vals[i] = hwbench.Mask(n>>shift, p.Width)
				shift += uint(p.Width)
			}
			check()
		}
	} else {
		seed := time.Now().UnixNano()
		rnd := rand.New(rand.NewSource(seed))
		t.Logf("random seed %d", seed)
		for n := 0; n < 1<<maxExhaustive; n++ {
			for i := range vals {
				vals[i] = rnd.Uint64()
			}
			check()
		}
	}

	c := d1.Circuit()
	t.Logf("%d components. %d steps in %v.", c.Size(), c.Steps(), time.Since(start))
}

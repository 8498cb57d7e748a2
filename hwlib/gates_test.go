// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"strings"
	"testing"

	"github.com/db47h/hwbench/circuit"
	hl "github.com/db47h/hwbench/hwlib"
	"github.com/db47h/hwbench/hwtest"
	"github.com/stretchr/testify/require"
)

func bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func testGate(t *testing.T, name string, gate circuit.NewPartFn, result [][]bool) {
	t.Helper()
	part := gate("").PartSpec // build dummy gate just to get to the partspec
	var w strings.Builder
	for _, n := range append(append([]string(nil), part.Inputs...), part.Outputs...) {
		if w.Len() > 0 {
			w.WriteString(", ")
		}
		w.WriteString(n + "=" + n)
	}
	wrapper := circuit.MustChip(name+"_T", strings.Join(part.Inputs, ", "), strings.Join(part.Outputs, ", "),
		gate(w.String()))
	d, err := circuit.NewDUT(wrapper)()
	require.NoError(t, err)

	inputs := make([]bool, len(part.Inputs))
	tot := 1 << uint(len(part.Inputs))
	for i := 0; i < tot; i++ {
		for b := range inputs {
			inputs[len(inputs)-b-1] = (i & (1 << uint(b))) != 0
		}
		for n, in := range inputs {
			require.NoError(t, d.Set(part.Inputs[n], bit(in)))
		}
		require.NoError(t, d.Eval())
		for o, out := range part.Outputs {
			v, err := d.Get(out)
			require.NoError(t, err)
			if exp := bit(result[o][i]); exp != v {
				t.Errorf("%s %v = %v, got %v", part.Name, inputs, exp, v)
			}
		}
	}
}

func Test_gate_builtin(t *testing.T) {
	tr, err := circuit.Chip("TRUE", "a", "out",
		hl.And("a=true, b=true, out=out"),
	)
	require.NoError(t, err)
	fa, err := circuit.Chip("FALSE", "a", "out",
		hl.Or("a=false, b=false, out=out"),
	)
	require.NoError(t, err)
	td := []struct {
		name   string
		gate   circuit.NewPartFn
		result [][]bool // a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{"NOT", hl.Not, [][]bool{{true, false}}},
		{"AND", hl.And, [][]bool{{false, false, false, true}}},
		{"NAND", hl.Nand, [][]bool{{true, true, true, false}}},
		{"OR", hl.Or, [][]bool{{false, true, true, true}}},
		{"NOR", hl.Nor, [][]bool{{true, false, false, false}}},
		{"XOR", hl.Xor, [][]bool{{false, true, true, false}}},
		{"XNOR", hl.Xnor, [][]bool{{true, false, false, true}}},
		{"ANDNOT", hl.AndNot, [][]bool{{false, false, true, false}}},
		{"TRUE", tr, [][]bool{{true, true}}},
		{"FALSE", fa, [][]bool{{false, false}}},
		{"MUX", hl.Mux, [][]bool{{false, false, false, true, true, false, true, true}}},
		{"DMUX", hl.DMux, [][]bool{{false, false, true, false}, {false, false, false, true}}},
		{"HALFADDER", hl.HalfAdder, [][]bool{{false, true, true, false}, {false, false, false, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, d.name, d.gate, d.result)
		})
	}
}

func TestMuxN(t *testing.T) {
	mux2 := circuit.MustChip("myMux2", "a[2], b[2], sel", "out[2]",
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
	)
	hwtest.ComparePart(t, hl.MuxN(2), mux2)
}

func TestGate(t *testing.T) {
	// custom gate: a implies b
	imply := hl.Gate(0xb)
	for _, d := range []struct{ a, b, out bool }{
		{false, false, true},
		{false, true, true},
		{true, false, false},
		{true, true, true},
	} {
		if got := imply.Eval(d.a, d.b); got != d.out {
			t.Errorf("IMPLY(%v, %v) = %v, expected %v", d.a, d.b, got, d.out)
		}
	}
	testGate(t, "IMPLY", imply.Spec("IMPLY").NewPart, [][]bool{{true, true, false, true}})

	// NAND is universal
	or := circuit.MustChip("NAND_OR", "a, b", "out",
		hl.Nand("a=a, b=a, out=na"),
		hl.Nand("a=b, b=b, out=nb"),
		hl.Nand("a=na, b=nb, out=out"),
	)
	hwtest.ComparePart(t, hl.Or, or)
}

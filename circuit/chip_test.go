// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit_test

import (
	"testing"

	"github.com/db47h/hwbench/circuit"
	hl "github.com/db47h/hwbench/hwlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChip_errors(t *testing.T) {
	data := []struct {
		name  string
		in    string
		out   string
		parts circuit.Parts
		err   string
	}{
		{"true_out", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, b=b, out=true"),
			hl.Nand("a=a, b=b, out=out"),
		}, "true_out: NAND.out:true: output pin connected to reserved pin"},
		{"clock_out", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, b=b, out=clock"),
			hl.Nand("a=a, b=b, out=out"),
		}, "clock_out: NAND.out:clock: output pin connected to reserved pin"},
		{"input_out", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, b=b, out=a"),
			hl.Nand("a=a, b=b, out=out"),
		}, "input_out: NAND.out:a: chip input pin used as output"},
		{"multi_out", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, b=b, out=x"),
			hl.Nand("a=a, b=b, out=x"),
			hl.Not("in=x, out=out"),
		}, "multi_out: NAND.out:x: output pin already driven by NAND.out"},
		{"no_output", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, b=wx, out=out"),
		}, "no_output: pin wx not connected to any output"},
		{"unconnected_out", "a, b", "out", circuit.Parts{}, "unconnected_out: chip output out not connected"},
		{"unknown_pin", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, typo=b, out=out"),
		}, "unknown_pin: invalid pin name typo for part NAND"},
		{"twice", "a, b", "out", circuit.Parts{
			hl.Nand("a=a, a=b, out=out"),
		}, "twice: pin NAND.a connected more than once"},
		{"reserved_in", "true", "out", circuit.Parts{
			hl.Not("in=true, out=out"),
		}, "reserved_in: reserved pin name true used as input"},
		{"reserved_out", "a", "clock", circuit.Parts{}, "reserved_out: reserved pin name clock used as output"},
		{"dup", "a, a", "out", circuit.Parts{
			hl.Not("in=a, out=out"),
		}, "dup: duplicate pin name a"},
		{"dup_io", "a", "a", circuit.Parts{}, "dup_io: duplicate pin name a"},
		{"unused_in", "a, b", "out", circuit.Parts{
			hl.Not("in=a, out=out"),
		}, ""},
		{"fanout", "a", "x, y", circuit.Parts{
			hl.Not("in=a, out=w"),
			hl.And("a=w, b=w, out=x"),
			hl.Or("a=w, b=false, out=y"),
		}, ""},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := circuit.Chip(d.name, d.in, d.out, d.parts...)
			if d.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, d.err)
			}
		})
	}
}

func TestChip_badIO(t *testing.T) {
	_, err := circuit.Chip("bad", "a[", "out")
	assert.ErrorContains(t, err, "bad inputs")
	_, err = circuit.Chip("bad", "a", "out[0]")
	assert.ErrorContains(t, err, "bad outputs")
	assert.Panics(t, func() { circuit.MustChip("bad", "a", "out") })
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, o0, o1 int
	dummy := (&circuit.PartSpec{
		Name:    "dummy",
		Inputs:  circuit.IO("a, b"),
		Outputs: circuit.IO("o0, o1"),
		Mount: func(s *circuit.Socket) []circuit.Component {
			a, b, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("o0"), s.Pin("o1")
			return []circuit.Component{func(*circuit.Circuit) {}}
		}}).NewPart
	c, err := circuit.New(circuit.MustChip("wrapper", "x", "y",
		dummy("a=x, o0=y"),
	))
	require.NoError(t, err)

	ports := circuit.Adapt(c).Ports()
	require.Len(t, ports, 3)
	// b is grounded, o1 gets a pin of its own.
	x, y := 3, 4
	assert.Equal(t, x, a)
	assert.Equal(t, 0, b)
	assert.Equal(t, y, o0)
	assert.NotContains(t, []int{0, 1, 2, x, y}, o1)
}

func TestChip_nested(t *testing.T) {
	xor := circuit.MustChip("XOR", "a, b", "out",
		hl.Nand("a=a, b=b, out=nandAB"),
		hl.Nand("a=a, b=nandAB, out=w0"),
		hl.Nand("a=b, b=nandAB, out=w1"),
		hl.Nand("a=w0, b=w1, out=out"),
	)
	// a 3 bits parity checker out of nested chips.
	parity := circuit.MustChip("PARITY", "in[3]", "odd",
		xor("a=in[0], b=in[1], out=x"),
		xor("a=x, b=in[2], out=odd"),
	)
	d, err := circuit.NewDUT(parity)()
	require.NoError(t, err)
	for i := uint64(0); i < 8; i++ {
		require.NoError(t, d.Set("in", i))
		require.NoError(t, d.Eval())
		odd, err := d.Get("odd")
		require.NoError(t, err)
		assert.Equal(t, (i^i>>1^i>>2)&1, odd, "parity(%03b)", i)
	}
	assert.Equal(t, 8, d.Circuit().Size())
}

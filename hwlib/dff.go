// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwbench/circuit"
)

// rising returns a function reporting rising edges of the circuit clock.
// Each component needs its own edge detector.
func rising(clk int) func(c *circuit.Circuit) bool {
	var prev bool
	return func(c *circuit.Circuit) bool {
		cur := c.Get(clk)
		r := cur && !prev
		prev = cur
		return r
	}
}

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) circuit.Part {
	return (&circuit.PartSpec{
		Name:    "DFF",
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Mount: func(s *circuit.Socket) []circuit.Component {
			in, out := s.Pin(pIn), s.Pin(pOut)
			tick := rising(s.Pin(circuit.Clock))
			var curOut bool
			return []circuit.Component{
				func(c *circuit.Circuit) {
					if tick(c) {
						curOut = c.Get(in)
					}
					c.Set(out, curOut)
				}}
		}}).NewPart(w)
}

// DFFR returns a clocked data flip flop with synchronous reset.
//
//	Inputs: in, reset
//	Outputs: out
//	Function: out(t) = reset(t-1) ? 0 : in(t-1)
//
func DFFR(w string) circuit.Part {
	return (&circuit.PartSpec{
		Name:    "DFFR",
		Inputs:  []string{pIn, pReset},
		Outputs: []string{pOut},
		Mount: func(s *circuit.Socket) []circuit.Component {
			in, rst, out := s.Pin(pIn), s.Pin(pReset), s.Pin(pOut)
			tick := rising(s.Pin(circuit.Clock))
			var curOut bool
			return []circuit.Component{
				func(c *circuit.Circuit) {
					if tick(c) {
						curOut = c.Get(in) && !c.Get(rst)
					}
					c.Set(out, curOut)
				}}
		}}).NewPart(w)
}

// Register returns a bits wide register with synchronous reset, built from
// DFFR parts.
//
//	Inputs: in[bits], reset
//	Outputs: out[bits]
//	Function: out(t) = reset(t-1) ? 0 : in(t-1)
//
func Register(bits int) circuit.NewPartFn {
	bs := strconv.Itoa(bits)
	parts := make(circuit.Parts, bits)
	for i := range parts {
		is := strconv.Itoa(i)
		parts[i] = DFFR("in=in[" + is + "], reset=reset, out=out[" + is + "]")
	}
	return circuit.MustChip("REGISTER"+bs, "in["+bs+"], reset", "out["+bs+"]", parts...)
}

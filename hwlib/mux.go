// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwbench/circuit"
)

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(w string) circuit.Part { return mux.NewPart(w) }

var mux = circuit.PartSpec{
	Name:    "MUX",
	Inputs:  []string{pA, pB, pSel},
	Outputs: []string{pOut},
	Mount: func(s *circuit.Socket) []circuit.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []circuit.Component{func(c *circuit.Circuit) {
			if c.Get(sel) {
				c.Set(out, c.Get(b))
			} else {
				c.Set(out, c.Get(a))
			}
		}}
	},
}

// DMux returns a demultiplexer.
//
//	Inputs: in, sel
//	Outputs: a, b
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(w string) circuit.Part { return dmux.NewPart(w) }

var dmux = func() *circuit.PartSpec {
	sp := circuit.MakePart((*dmuxImpl)(nil))
	sp.Name = "DMUX"
	return sp
}()

type dmuxImpl struct {
	In  int `hw:"in"`
	Sel int `hw:"in"`
	A   int `hw:"out"`
	B   int `hw:"out"`
}

func (d *dmuxImpl) Update(c *circuit.Circuit) {
	in, sel := c.Get(d.In), c.Get(d.Sel)
	c.Set(d.A, in && !sel)
	c.Set(d.B, in && sel)
}

// MuxN returns an n-bits Mux.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
//
func MuxN(bits int) circuit.NewPartFn {
	return (&circuit.PartSpec{
		Name:    "MUX" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pA, pB), pSel),
		Outputs: bus(bits, pOut),
		Mount: func(s *circuit.Socket) []circuit.Component {
			a, b, sel := s.Bus(pA, bits), s.Bus(pB, bits), s.Pin(pSel)
			o := s.Bus(pOut, bits)
			return []circuit.Component{
				func(c *circuit.Circuit) {
					src := a
					if c.Get(sel) {
						src = b
					}
					for i := range o {
						c.Set(o[i], c.Get(src[i]))
					}
				}}
		}}).NewPart
}

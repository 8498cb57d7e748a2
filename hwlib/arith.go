// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/hwbench/circuit"
)

var hAdder = &circuit.PartSpec{
	Name:    "HalfAdder",
	Inputs:  []string{pA, pB},
	Outputs: []string{"s", "c"},
	Mount: func(s *circuit.Socket) []circuit.Component {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []circuit.Component{
			func(c *circuit.Circuit) {
				va, vb := c.Get(a), c.Get(b)
				c.Set(sum, va != vb)
				c.Set(cout, va && vb)
			}}
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder(c string) circuit.Part {
	return hAdder.NewPart(c)
}

var adder = &circuit.PartSpec{
	Name:    "FullAdder",
	Inputs:  []string{pA, pB, "cin"},
	Outputs: []string{"s", "cout"},
	Mount: func(s *circuit.Socket) []circuit.Component {
		a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin("cin")
		sum, cout := s.Pin("s"), s.Pin("cout")
		return []circuit.Component{
			func(c *circuit.Circuit) {
				va, vb, cin := c.Get(a), c.Get(b), c.Get(cin)
				s := va != vb
				c.Set(sum, s != cin)
				c.Set(cout, s && cin || va && vb)
			}}
	}}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
func FullAdder(c string) circuit.Part {
	return adder.NewPart(c)
}

// AdderN returns a N-bits adder
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//
func AdderN(bits int) circuit.NewPartFn {
	adderN := &circuit.PartSpec{
		Name:    "Adder" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *circuit.Socket) []circuit.Component {
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			out, cout := s.Bus(pOut, bits), s.Pin("c")
			return []circuit.Component{
				func(c *circuit.Circuit) {
					cc := false
					for i, o := range out {
						va, vb := c.Get(a[i]), c.Get(b[i])
						s0 := va != vb
						c.Set(o, s0 != cc)
						cc = va && vb || s0 && cc
					}
					c.Set(cout, cc)
				}}
		}}
	return adderN.NewPart
}

// Inc returns a bits wide incrementer built from a chain of half adders.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = in + 1, modulo 2^bits
//
func Inc(bits int) circuit.NewPartFn {
	bs := strconv.Itoa(bits)
	parts := make(circuit.Parts, bits)
	carry := circuit.True
	for i := range parts {
		is := strconv.Itoa(i)
		cout := "c" + is
		parts[i] = HalfAdder("a=in[" + is + "], b=" + carry + ", s=out[" + is + "], c=" + cout)
		carry = cout
	}
	return circuit.MustChip("INC"+bs, "in["+bs+"]", "out["+bs+"]", parts...)
}

// EqualN returns a comparator for two bits wide buses.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out
//	Function: out = a == b
//
func EqualN(bits int) circuit.NewPartFn {
	return (&circuit.PartSpec{
		Name:    "EQUAL" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: []string{pOut},
		Mount: func(s *circuit.Socket) []circuit.Component {
			a, b, out := s.Bus(pA, bits), s.Bus(pB, bits), s.Pin(pOut)
			return []circuit.Component{
				func(c *circuit.Circuit) {
					eq := true
					for i := range a {
						if c.Get(a[i]) != c.Get(b[i]) {
							eq = false
							break
						}
					}
					c.Set(out, eq)
				}}
		}}).NewPart
}

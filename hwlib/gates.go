// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for circuit simulations,
// as well as ready-made test bench designs.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/hwbench/circuit"
)

// common pin names
const (
	pA     = "a"
	pB     = "b"
	pIn    = "in"
	pSel   = "sel"
	pOut   = "out"
	pReset = "reset"
)

// make a bus name
func bus(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = n + "[" + strconv.Itoa(j) + "]"
		}
	}
	return b
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) circuit.Part { return not.NewPart(w) }

var not = &circuit.PartSpec{
	Name:    "NOT",
	Inputs:  []string{pIn},
	Outputs: []string{pOut},
	Mount: func(s *circuit.Socket) []circuit.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []circuit.Component{
			func(c *circuit.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// A Gate is the truth table of a two inputs gate: bit a<<1|b holds the
// output for inputs a and b.
//
//	Gate(0x8) // AND
//	Gate(0x6) // XOR
//
type Gate uint8

// Eval returns the gate output for the given inputs.
//
func (g Gate) Eval(a, b bool) bool {
	var i uint
	if a {
		i |= 2
	}
	if b {
		i |= 1
	}
	return g&(1<<i) != 0
}

// Spec returns a part spec for g with inputs a, b and output out.
//
func (g Gate) Spec(name string) *circuit.PartSpec {
	return &circuit.PartSpec{
		Name:    name,
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount: func(s *circuit.Socket) []circuit.Component {
			a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
			return []circuit.Component{
				func(c *circuit.Circuit) { c.Set(out, g.Eval(c.Get(a), c.Get(b))) },
			}
		},
	}
}

var (
	and    = Gate(0x8).Spec("AND")
	nand   = Gate(0x7).Spec("NAND")
	or     = Gate(0xe).Spec("OR")
	nor    = Gate(0x1).Spec("NOR")
	xor    = Gate(0x6).Spec("XOR")
	xnor   = Gate(0x9).Spec("XNOR")
	andNot = Gate(0x4).Spec("ANDNOT")
)

// And returns an AND gate.
//
//	Function: out = a && b
//
func And(w string) circuit.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
//	Function: out = !(a && b)
//
func Nand(w string) circuit.Part { return nand.NewPart(w) }

// Or returns an OR gate.
//
//	Function: out = a || b
//
func Or(w string) circuit.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
//	Function: out = !(a || b)
//
func Nor(w string) circuit.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
//	Function: out = a != b
//
func Xor(w string) circuit.Part { return xor.NewPart(w) }

// Xnor returns a XNOR gate.
//
//	Function: out = a == b
//
func Xnor(w string) circuit.Part { return xnor.NewPart(w) }

// AndNot returns a gate that passes a while b is low. TimerBench uses it to
// mask its completion output during reset.
//
//	Function: out = a && !b
//
func AndNot(w string) circuit.Part { return andNot.NewPart(w) }

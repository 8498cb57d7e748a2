// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"github.com/pkg/errors"
)

// Reserved pin names. They are available in every socket: False and True
// are constant inputs, Clock is the circuit clock, driven from outside the
// circuit.
//
const (
	False = "false"
	True  = "true"
	Clock = "clock"
)

const (
	cstFalse = iota
	cstTrue
	cstClock
	cstCount
)

func isReserved(name string) bool {
	return name == False || name == True || name == Clock
}

// A Component is a component in a circuit that can Get and Set pin states.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in"),
//		Outputs: IO("out"),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func (c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Use IO to expand bus declarations.
	Inputs []string
	// Output pin names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(errors.Wrap(err, p.Name))
	}
	return Part{p, conns}
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(connections string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m     map[string]int
	c     *Circuit
	scope []string
}

func newSocket(c *Circuit, scope []string) *Socket {
	return &Socket{
		m:     map[string]int{False: cstFalse, True: cstTrue, Clock: cstClock},
		c:     c,
		scope: scope,
	}
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
		s.c.wires = append(s.c.wires, wire{scope: s.scope, name: name, pin: n})
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if any pin of the bus does not exist.
//
func (s *Socket) Bus(name string, bits int) []int {
	out := make([]int, bits)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}

func (s *Socket) sub(name string) *Socket {
	scope := make([]string, len(s.scope), len(s.scope)+1)
	copy(scope, s.scope)
	return newSocket(s.c, append(scope, name))
}

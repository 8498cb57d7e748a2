// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

// Time is the simulation time, in half clock edges.
//
type Time uint64

// Direction tells who writes a port.
//
type Direction int

// Port directions.
//
const (
	Driven   Direction = iota // written by the harness
	Observed                  // written by the design
)

func (d Direction) String() string {
	switch d {
	case Driven:
		return "driven"
	case Observed:
		return "observed"
	}
	return "unknown"
}

// Port describes a named signal of a design.
//
type Port struct {
	Name  string
	Width int // in bits, 1 to 64
	Dir   Direction
}

// Mask truncates v to the given bit width.
//
func Mask(v uint64, width int) uint64 {
	if width <= 0 || width >= 64 {
		return v
	}
	return v & (1<<uint(width) - 1)
}

// DUT is the interface implemented by designs under test.
//
// Set only accepts Driven ports. Get accepts any port and returns the value
// as of the last call to Eval (or the last Set for driven ports).
//
type DUT interface {
	// Ports returns the design's ports.
	Ports() []Port
	// Set drives a port. The value takes effect on the next Eval.
	Set(name string, v uint64) error
	// Get reads the current value of a port.
	Get(name string) (uint64, error)
	// Eval propagates the current input values through the design.
	Eval() error
	// Trace registers the design's signals with r. Signals nested deeper
	// than depth scope levels are not registered.
	Trace(r Registry, depth int)
}

// Factory builds a new DUT instance.
//
type Factory[D DUT] func() (D, error)

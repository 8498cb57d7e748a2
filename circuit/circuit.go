// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"fmt"
	"strings"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

// Circuit is a runnable circuit simulation.
//
// Pin states are double buffered: during a simulation step, components read
// pin states from the current frame and write them to the next frame. Steps
// are repeated by Eval until no pin changes state.
//
type Circuit struct {
	name  string
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int // wire count
	steps uint
	limit int

	ports []port
	wires []wire
}

// a port is a top-level input or output, possibly spanning several pins.
type port struct {
	hwbench.Port
	pins []int // pins[0] is the lsb
}

// a wire is a named internal pin.
type wire struct {
	scope []string
	name  string
	pin   int
}

// An Option configures a Circuit.
//
type Option func(*Circuit)

// SettleLimit sets the maximum number of simulation steps that Eval runs
// before reporting a failure to settle. The default is twice the number of
// components in the circuit.
//
func SettleLimit(steps int) Option {
	return func(c *Circuit) { c.limit = steps }
}

// New builds a new circuit from the given chip. The chip's inputs and outputs
// become the circuit's ports, together with the Clock input. Buses wider than
// 64 bits cannot be used as ports.
//
// The combinational logic is settled once with all inputs low, so that the
// first clock edge samples settled values. A circuit that cannot settle is
// reported by its first call to Eval.
//
func New(chip NewPartFn, opts ...Option) (cc *Circuit, err error) {
	p := chip("")
	c := &Circuit{name: p.Name, count: cstCount}
	for _, opt := range opts {
		opt(c)
	}
	s := newSocket(c, []string{p.Name})
	for _, n := range p.Inputs {
		s.m[n] = c.allocPin()
	}
	for _, n := range p.Outputs {
		s.m[n] = c.allocPin()
	}

	defer func() {
		if r := recover(); r != nil {
			cc, err = nil, errors.Errorf("mount %s: %v", p.Name, r)
		}
	}()
	c.cs = p.Mount(s)
	if len(c.cs) == 0 {
		return nil, errors.Errorf("%s: empty circuit", p.Name)
	}

	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true

	c.ports = append(c.ports, port{hwbench.Port{Name: Clock, Width: 1, Dir: hwbench.Driven}, []int{cstClock}})
	c.ports = append(c.ports, groupPorts(p.Inputs, hwbench.Driven, s)...)
	c.ports = append(c.ports, groupPorts(p.Outputs, hwbench.Observed, s)...)
	for i := range c.ports {
		if w := c.ports[i].Width; w > maxPortWidth {
			return nil, errors.Errorf("%s: port %s is %d bits wide, max %d", p.Name, c.ports[i].Name, w, maxPortWidth)
		}
	}

	if c.limit <= 0 {
		c.limit = 2*len(c.cs) + cstCount
	}
	_ = c.Eval()
	c.steps = 0
	return c, nil
}

// maxPortWidth is the bit size of port values.
const maxPortWidth = 64

// groupPorts groups bus pins like "q[0]", "q[1]" into a single port "q".
//
func groupPorts(names []string, dir hwbench.Direction, s *Socket) []port {
	var ps []port
	idx := make(map[string]int)
	for _, n := range names {
		base := n
		if i := strings.IndexRune(n, '['); i >= 0 {
			base = n[:i]
		}
		i, ok := idx[base]
		if !ok {
			i = len(ps)
			idx[base] = i
			ps = append(ps, port{Port: hwbench.Port{Name: base, Dir: dir}})
		}
		ps[i].pins = append(ps[i].pins, s.Pin(n))
		ps[i].Width++
	}
	return ps
}

// alloc allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Name returns the name of the circuit's top-level chip.
//
func (c *Circuit) Name() string { return c.name }

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n for the next simulation step. The value of n
// should be obtained in a MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// drive forces the state of pin n, effective immediately.
func (c *Circuit) drive(n int, s bool) {
	c.s0[n] = s
	c.s1[n] = s
}

// Word returns the state of the given pins as an integer. pins[0] is the lsb.
//
func (c *Circuit) Word(pins []int) uint64 {
	var v uint64
	for bit, n := range pins {
		if c.s0[n] {
			v |= 1 << uint(bit)
		}
	}
	return v
}

// Step advances the simulation by one step and reports whether any pin
// changed state.
//
func (c *Circuit) Step() bool {
	copy(c.s1, c.s0)
	for _, f := range c.cs {
		f(c)
	}
	c.steps++
	changed := false
	for i := range c.s0 {
		if c.s0[i] != c.s1[i] {
			changed = true
			break
		}
	}
	c.s0, c.s1 = c.s1, c.s0
	return changed
}

// Eval runs simulation steps until all pin states are stable. It fails if the
// circuit has not settled after the configured settle limit, which usually
// denotes an unclocked feedback loop.
//
func (c *Circuit) Eval() error {
	for i := 0; i < c.limit; i++ {
		if !c.Step() {
			return nil
		}
	}
	return errors.Errorf("%s: not settled after %d steps", c.name, c.limit)
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.steps
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }

func (c *Circuit) String() string {
	return fmt.Sprintf("%s: %d components, %d pins", c.name, len(c.cs), c.count)
}

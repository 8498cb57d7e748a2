// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

// DUT adapts a Circuit to the hwbench.DUT interface.
//
type DUT struct {
	c     *Circuit
	ports map[string]*port
}

var _ hwbench.DUT = (*DUT)(nil)

// NewDUT returns a factory building a new circuit from chip for each call.
//
func NewDUT(chip NewPartFn, opts ...Option) hwbench.Factory[*DUT] {
	return func() (*DUT, error) {
		c, err := New(chip, opts...)
		if err != nil {
			return nil, err
		}
		return Adapt(c), nil
	}
}

// Adapt wraps c into a DUT.
//
func Adapt(c *Circuit) *DUT {
	d := &DUT{c: c, ports: make(map[string]*port, len(c.ports))}
	for i := range c.ports {
		d.ports[c.ports[i].Name] = &c.ports[i]
	}
	return d
}

// Circuit returns the underlying circuit.
//
func (d *DUT) Circuit() *Circuit { return d.c }

// Ports implements hwbench.DUT.
//
func (d *DUT) Ports() []hwbench.Port {
	ps := make([]hwbench.Port, len(d.c.ports))
	for i := range d.c.ports {
		ps[i] = d.c.ports[i].Port
	}
	return ps
}

func (d *DUT) port(name string) (*port, error) {
	p, ok := d.ports[name]
	if !ok {
		return nil, errors.Errorf("%s: no such port %q", d.c.name, name)
	}
	return p, nil
}

// Set implements hwbench.DUT. Bits beyond the port width are ignored.
//
func (d *DUT) Set(name string, v uint64) error {
	p, err := d.port(name)
	if err != nil {
		return err
	}
	if p.Dir != hwbench.Driven {
		return errors.Errorf("%s: cannot drive output port %q", d.c.name, name)
	}
	v = hwbench.Mask(v, p.Width)
	for bit, n := range p.pins {
		d.c.drive(n, v&(1<<uint(bit)) != 0)
	}
	return nil
}

// Get implements hwbench.DUT.
//
func (d *DUT) Get(name string) (uint64, error) {
	p, err := d.port(name)
	if err != nil {
		return 0, err
	}
	return d.c.Word(p.pins), nil
}

// Eval implements hwbench.DUT.
//
func (d *DUT) Eval() error { return d.c.Eval() }

// Trace implements hwbench.DUT. Ports are registered at depth 1 in a scope
// named after the top-level chip. Internal wires of the top-level chip are
// registered at depth 2, wires of its parts at depth 3, and so on.
//
func (d *DUT) Trace(r hwbench.Registry, depth int) {
	if depth < 1 {
		return
	}
	scope := []string{d.c.name}
	for i := range d.c.ports {
		pins := d.c.ports[i].pins
		r.Register(scope, d.c.ports[i].Name, d.c.ports[i].Width, func() uint64 { return d.c.Word(pins) })
	}
	for _, w := range d.c.wires {
		if len(w.scope)+1 > depth {
			continue
		}
		pins := []int{w.pin}
		r.Register(w.scope, w.name, 1, func() uint64 { return d.c.Word(pins) })
	}
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

// Counter is a behavioral DUT that counts rising clock edges while reset is
// deasserted, and asserts done once the count reaches its target.
//
//	Driven: clock, reset
//	Observed: count[32], done
//
// With a reset window of w half-edges (w even), done is first observed at
// time w + 2*target.
//
type Counter struct {
	target uint64

	clock, reset uint64
	prev         uint64
	count        uint64
	done         uint64

	// Evals counts calls to Eval.
	Evals int
}

var _ hwbench.DUT = (*Counter)(nil)

var counterPorts = []hwbench.Port{
	{Name: "clock", Width: 1, Dir: hwbench.Driven},
	{Name: "reset", Width: 1, Dir: hwbench.Driven},
	{Name: "count", Width: 32, Dir: hwbench.Observed},
	{Name: "done", Width: 1, Dir: hwbench.Observed},
}

// NewCounter returns a factory for Counter designs with the given target.
func NewCounter(target uint64) hwbench.Factory[*Counter] {
	return func() (*Counter, error) {
		if target == 0 {
			return nil, errors.New("counter: zero target")
		}
		return &Counter{target: target}, nil
	}
}

// Ports implements hwbench.DUT.
func (c *Counter) Ports() []hwbench.Port {
	return append([]hwbench.Port(nil), counterPorts...)
}

// Set implements hwbench.DUT.
func (c *Counter) Set(name string, v uint64) error {
	switch name {
	case "clock":
		c.clock = v & 1
	case "reset":
		c.reset = v & 1
	case "count", "done":
		return errors.Errorf("counter: cannot drive output port %q", name)
	default:
		return errors.Errorf("counter: no such port %q", name)
	}
	return nil
}

// Get implements hwbench.DUT.
func (c *Counter) Get(name string) (uint64, error) {
	switch name {
	case "clock":
		return c.clock, nil
	case "reset":
		return c.reset, nil
	case "count":
		return hwbench.Mask(c.count, 32), nil
	case "done":
		return c.done, nil
	}
	return 0, errors.Errorf("counter: no such port %q", name)
}

// Eval implements hwbench.DUT.
func (c *Counter) Eval() error {
	c.Evals++
	if c.clock != 0 && c.prev == 0 {
		if c.reset != 0 {
			c.count = 0
		} else {
			c.count++
		}
	}
	c.prev = c.clock
	c.done = 0
	if c.reset == 0 && c.count >= c.target {
		c.done = 1
	}
	return nil
}

// Trace implements hwbench.DUT.
func (c *Counter) Trace(r hwbench.Registry, depth int) {
	if depth < 1 {
		return
	}
	scope := []string{"counter"}
	for _, p := range counterPorts {
		name := p.Name
		r.Register(scope, name, p.Width, func() uint64 {
			v, _ := c.Get(name)
			return v
		})
	}
}

// Fault describes a failure to inject into a design.
//
type Fault struct {
	// Clock is the name of the clock port. Defaults to "clock".
	Clock string
	// Cycle is the 1-based clock cycle whose rising edge fails to evaluate.
	Cycle uint64
	// Err is returned by Eval.
	Err error
	// If not nil, Eval panics with Panic instead of returning Err.
	Panic interface{}
}

// FaultyDUT wraps a DUT and makes its Eval method fail from a given clock
// cycle on.
//
type FaultyDUT struct {
	hwbench.DUT
	Fault

	clk   uint64
	edges uint64
}

// Faulty returns a factory wrapping the designs built by newDUT into a
// FaultyDUT.
//
func Faulty[D hwbench.DUT](newDUT hwbench.Factory[D], f Fault) hwbench.Factory[*FaultyDUT] {
	if f.Clock == "" {
		f.Clock = "clock"
	}
	return func() (*FaultyDUT, error) {
		d, err := newDUT()
		if err != nil {
			return nil, err
		}
		return &FaultyDUT{DUT: d, Fault: f}, nil
	}
}

// Edges returns the number of rising clock edges driven so far.
func (d *FaultyDUT) Edges() uint64 { return d.edges }

// Set implements hwbench.DUT.
func (d *FaultyDUT) Set(name string, v uint64) error {
	if name == d.Clock {
		if v != 0 && d.clk == 0 {
			d.edges++
		}
		d.clk = v
	}
	return d.DUT.Set(name, v)
}

// Eval implements hwbench.DUT.
func (d *FaultyDUT) Eval() error {
	if d.Cycle > 0 && d.edges >= d.Cycle {
		if d.Panic != nil {
			panic(d.Panic)
		}
		if d.Err != nil {
			return d.Err
		}
	}
	return d.DUT.Eval()
}

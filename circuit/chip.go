// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	pinInput = iota + 1
	pinOutput
)

type chip struct {
	PartSpec
	parts Parts
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component
	for i, p := range c.parts {
		sub := s.sub(p.Name + "_" + strconv.Itoa(i))
		for _, cn := range p.Conns {
			sub.m[cn.PP] = s.PinOrNew(cn.CP)
		}
		// unconnected inputs are grounded, unconnected outputs get a
		// dedicated pin.
		for _, in := range p.Inputs {
			if _, ok := sub.m[in]; !ok {
				sub.m[in] = cstFalse
			}
		}
		for _, out := range p.Outputs {
			if _, ok := sub.m[out]; !ok {
				sub.m[out] = s.c.allocPin()
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// A Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips.
//
// Chip outputs can be read by the chip's own parts. Internal wires are
// created on demand by naming them in part connections.
//
func Chip(name string, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIO(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := ParseIO(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}

	io := make(map[string]int, len(ins)+len(outs))
	for _, n := range ins {
		if isReserved(n) {
			return nil, errors.Errorf("%s: reserved pin name %s used as input", name, n)
		}
		if io[n] != 0 {
			return nil, errors.Errorf("%s: duplicate pin name %s", name, n)
		}
		io[n] = pinInput
	}
	for _, n := range outs {
		if isReserved(n) {
			return nil, errors.Errorf("%s: reserved pin name %s used as output", name, n)
		}
		if io[n] != 0 {
			return nil, errors.Errorf("%s: duplicate pin name %s", name, n)
		}
		io[n] = pinOutput
	}

	driven := make(map[string]string)
	var read []string
	for _, p := range parts {
		dir := make(map[string]int, len(p.Inputs)+len(p.Outputs))
		for _, n := range p.Inputs {
			dir[n] = pinInput
		}
		for _, n := range p.Outputs {
			dir[n] = pinOutput
		}
		seen := make(map[string]bool, len(p.Conns))
		for _, cn := range p.Conns {
			pn := p.Name + "." + cn.PP
			switch dir[cn.PP] {
			case 0:
				return nil, errors.Errorf("%s: invalid pin name %s for part %s", name, cn.PP, p.Name)
			case pinOutput:
				switch {
				case isReserved(cn.CP):
					return nil, errors.Errorf("%s: %s:%s: output pin connected to reserved pin", name, pn, cn.CP)
				case io[cn.CP] == pinInput:
					return nil, errors.Errorf("%s: %s:%s: chip input pin used as output", name, pn, cn.CP)
				case driven[cn.CP] != "":
					return nil, errors.Errorf("%s: %s:%s: output pin already driven by %s", name, pn, cn.CP, driven[cn.CP])
				}
				driven[cn.CP] = pn
			default:
				if !isReserved(cn.CP) && io[cn.CP] != pinInput {
					read = append(read, cn.CP)
				}
			}
			if seen[cn.PP] {
				return nil, errors.Errorf("%s: pin %s connected more than once", name, pn)
			}
			seen[cn.PP] = true
		}
	}
	for _, n := range read {
		if driven[n] == "" {
			return nil, errors.Errorf("%s: pin %s not connected to any output", name, n)
		}
	}
	for _, n := range outs {
		if driven[n] == "" {
			return nil, errors.Errorf("%s: chip output %s not connected", name, n)
		}
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts: parts,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}

// MustChip is like Chip but panics on error.
//
func MustChip(name string, inputs, outputs string, parts ...Part) NewPartFn {
	fn, err := Chip(name, inputs, outputs, parts...)
	if err != nil {
		panic(err)
	}
	return fn
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Connection connects a part's pin to a pin of its host chip.
//
type Connection struct {
	PP string // part pin
	CP string // chip pin
}

// BusPinName returns the name of the i-th pin of bus name.
//
func BusPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// ParseIO parses a pin specification string and returns individual pin
// names, expanding bus declarations. For example:
//
//	ParseIO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIO(spec string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i := strings.IndexRune(f, '[')
		if i < 0 {
			if !isIdent(f) {
				return nil, errors.Errorf("in %q: invalid pin name %q", spec, f)
			}
			out = append(out, f)
			continue
		}
		name := f[:i]
		if !isIdent(name) || !strings.HasSuffix(f, "]") {
			return nil, errors.Errorf("in %q: invalid bus declaration %q", spec, f)
		}
		n, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil || n <= 0 {
			return nil, errors.Errorf("in %q: invalid bus size in %q", spec, f)
		}
		for j := 0; j < n; j++ {
			out = append(out, BusPinName(name, j))
		}
	}
	return out, nil
}

// IO is like ParseIO but panics on error.
//
func IO(spec string) []string {
	pins, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// ParseConnections parses a connection description like:
//
//	"a=x, b[0..3]=bus[4..7], c=true"
//
// and returns the individual pin to pin connections. A bus range on the part
// side can be connected to a single chip pin, in which case all pins of the
// range are connected to it.
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	for _, f := range strings.Split(c, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		eq := strings.IndexRune(f, '=')
		if eq < 0 {
			return nil, errors.Errorf("in %q: missing '=' in %q", c, f)
		}
		pp, err := expandRange(strings.TrimSpace(f[:eq]))
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", c)
		}
		cp, err := expandRange(strings.TrimSpace(f[eq+1:]))
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", c)
		}
		switch {
		case len(pp) == len(cp):
			for i := range pp {
				conns = append(conns, Connection{pp[i], cp[i]})
			}
		case len(cp) == 1:
			for i := range pp {
				conns = append(conns, Connection{pp[i], cp[0]})
			}
		default:
			return nil, errors.Errorf("in %q: pin count mismatch in %q", c, f)
		}
	}
	return conns, nil
}

// expandRange expands "bus[2..4]" to bus[2], bus[3], bus[4]. Single pin
// names like "a" or "bus[3]" are returned as is.
//
func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		if !isIdent(name) {
			return nil, errors.Errorf("invalid pin name %q", name)
		}
		return []string{name}, nil
	}
	bus := name[:i]
	if !isIdent(bus) || !strings.HasSuffix(name, "]") {
		return nil, errors.Errorf("invalid pin name %q", name)
	}
	n := name[i+1 : len(name)-1]
	j := strings.Index(n, "..")
	if j < 0 {
		idx, err := strconv.Atoi(n)
		if err != nil || idx < 0 {
			return nil, errors.Errorf("invalid bus index in %q", name)
		}
		return []string{BusPinName(bus, idx)}, nil
	}
	start, err := strconv.Atoi(n[:j])
	if err != nil {
		return nil, errors.Wrapf(err, "bus range %q", name)
	}
	end, err := strconv.Atoi(n[j+2:])
	if err != nil {
		return nil, errors.Wrapf(err, "bus range %q", name)
	}
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid bus range %q", name)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

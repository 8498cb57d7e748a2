// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circuit

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that parts built with MakePart must implement.
// Update is called once per evaluation step, like a Component.
//
type Updater interface {
	Update(c *Circuit)
}

// field is a tagged pin or bus field of an Updater struct.
type field struct {
	index int
	pin   string
	input bool
	bits  int // 0 for a single pin
}

func (f *field) pins() []string {
	if f.bits == 0 {
		return []string{f.pin}
	}
	ps := make([]string, f.bits)
	for i := range ps {
		ps[i] = BusPinName(f.pin, i)
	}
	return ps
}

func fields(typ reflect.Type) []field {
	var fs []field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag, ok := sf.Tag.Lookup("hw")
		if !ok || tag == "" {
			continue
		}
		if !sf.IsExported() {
			panic(errors.Errorf("unexported field %q in %q", sf.Name, typ.Name()))
		}
		f := field{index: i, pin: strings.ToLower(sf.Name)}
		dir, name, _ := strings.Cut(tag, ",")
		if name != "" {
			f.pin = name
		}
		switch dir {
		case "in":
			f.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, sf.Name, typ.Name()))
		}
		switch ft := sf.Type; {
		case ft.Kind() == reflect.Int:
		case ft.Kind() == reflect.Array && ft.Elem().Kind() == reflect.Int && ft.Len() > 0:
			f.bits = ft.Len()
		default:
			panic(errors.Errorf("unsupported type %q for field %q in %q", ft, sf.Name, typ.Name()))
		}
		fs = append(fs, f)
	}
	return fs
}

// MakePart builds a PartSpec from the struct type of u. Each mounted part gets
// its own zero value of that type with pin numbers stored in its fields.
//
// Pin fields are tagged `hw:"in"` or `hw:"out"`. The pin name is the
// lowercase field name unless given in the tag: `hw:"in,sel"`. Single pins
// are int fields, buses are arrays of int.
//
// MakePart panics if u is not a struct or pointer to struct, or on a
// malformed tagged field.
//
func MakePart(u Updater) *PartSpec {
	typ := reflect.TypeOf(u)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if k := typ.Kind(); k != reflect.Struct {
		panic(errors.Errorf("unsupported type %q for %q", k, typ.Name()))
	}

	fs := fields(typ)
	sp := &PartSpec{Name: typ.Name()}
	for i := range fs {
		if fs[i].input {
			sp.Inputs = append(sp.Inputs, fs[i].pins()...)
		} else {
			sp.Outputs = append(sp.Outputs, fs[i].pins()...)
		}
	}
	sp.Mount = func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for i := range fs {
			fv := e.Field(fs[i].index)
			if fs[i].bits == 0 {
				fv.SetInt(int64(s.Pin(fs[i].pin)))
				continue
			}
			for b, name := range fs[i].pins() {
				fv.Index(b).SetInt(int64(s.Pin(name)))
			}
		}
		return []Component{v.Interface().(Updater).Update}
	}
	return sp
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package vcd implements a waveform sink writing Value Change Dump files
// (IEEE 1364 section 18).
//
package vcd

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

type signal struct {
	scope []string
	name  string
	width int
	id    string
	value func() uint64
	last  uint64
}

// Writer is a hwbench.Sink writing VCD files.
//
// Only value changes are written, except for the first dump which records
// the initial value of every signal.
//
type Writer struct {
	// Timescale is the duration of one time unit, written in the file header.
	// Defaults to "1ns".
	Timescale string

	sigs   []*signal
	f      io.WriteCloser
	w      *bufio.Writer
	dumped bool
	last   hwbench.Time
}

var _ hwbench.Sink = (*Writer)(nil)

// NewWriter returns a new VCD writer.
//
func NewWriter() *Writer {
	return &Writer{Timescale: "1ns"}
}

// Register implements hwbench.Registry. Signals must be registered before
// the call to Open.
//
func (w *Writer) Register(scope []string, name string, width int, value func() uint64) {
	if width <= 0 {
		width = 1
	}
	w.sigs = append(w.sigs, &signal{
		scope: scope,
		name:  name,
		width: width,
		id:    identifier(len(w.sigs)),
		value: value,
	})
}

// identifier returns the short identifier code for the n-th signal, using
// printable ASCII characters from '!' to '~'.
//
func identifier(n int) string {
	var b []byte
	for {
		b = append(b, byte('!'+n%94))
		n /= 94
		if n == 0 {
			break
		}
		n--
	}
	return string(b)
}

// Open creates the file at path and writes the VCD header.
//
func (w *Writer) Open(path string) error {
	if w.f != nil {
		return errors.New("vcd: already open")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "vcd")
	}
	w.f = f
	w.w = bufio.NewWriter(f)
	// group signals by scope so that each scope is declared once.
	sort.SliceStable(w.sigs, func(i, j int) bool {
		return lessScope(w.sigs[i].scope, w.sigs[j].scope)
	})
	w.writeHeader()
	if err = w.w.Flush(); err != nil {
		f.Close()
		w.f, w.w = nil, nil
		return errors.Wrap(err, "vcd: write header")
	}
	return nil
}

func lessScope(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (w *Writer) writeHeader() {
	ts := w.Timescale
	if ts == "" {
		ts = "1ns"
	}
	w.w.WriteString("$version hwbench $end\n")
	w.w.WriteString("$timescale " + ts + " $end\n")
	var cur []string
	for _, s := range w.sigs {
		// close scopes down to the common prefix, then open the new ones
		n := 0
		for n < len(cur) && n < len(s.scope) && cur[n] == s.scope[n] {
			n++
		}
		for i := len(cur); i > n; i-- {
			w.w.WriteString("$upscope $end\n")
		}
		for _, sc := range s.scope[n:] {
			w.w.WriteString("$scope module " + sanitize(sc) + " $end\n")
		}
		cur = s.scope
		w.w.WriteString("$var wire " + strconv.Itoa(s.width) + " " + s.id + " " + reference(s.name, s.width) + " $end\n")
	}
	for range cur {
		w.w.WriteString("$upscope $end\n")
	}
	w.w.WriteString("$enddefinitions $end\n")
}

// reference formats a signal name for a $var declaration. Bus pin names like
// "q[3]" are written as "q [3]"; multi-bit signals get a range suffix.
//
func reference(name string, width int) string {
	if i := strings.IndexRune(name, '['); i > 0 {
		return sanitize(name[:i]) + " " + name[i:]
	}
	if width > 1 {
		return sanitize(name) + " [" + strconv.Itoa(width-1) + ":0]"
	}
	return sanitize(name)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r > '~' {
			return '_'
		}
		return r
	}, s)
}

func (w *Writer) writeValue(s *signal, v uint64) {
	if s.width == 1 {
		w.w.WriteByte('0' + byte(v&1))
		w.w.WriteString(s.id)
		w.w.WriteByte('\n')
		return
	}
	w.w.WriteByte('b')
	w.w.WriteString(strconv.FormatUint(hwbench.Mask(v, s.width), 2))
	w.w.WriteByte(' ')
	w.w.WriteString(s.id)
	w.w.WriteByte('\n')
}

// Dump writes the values of all signals that changed since the last dump.
// Times must be strictly increasing.
//
func (w *Writer) Dump(t hwbench.Time) error {
	if w.f == nil {
		return errors.New("vcd: not open")
	}
	if w.dumped && t <= w.last {
		return errors.Errorf("vcd: time %d not after %d", t, w.last)
	}
	w.w.WriteString("#" + strconv.FormatUint(uint64(t), 10) + "\n")
	if !w.dumped {
		w.w.WriteString("$dumpvars\n")
	}
	for _, s := range w.sigs {
		v := hwbench.Mask(s.value(), s.width)
		if w.dumped && v == s.last {
			continue
		}
		s.last = v
		w.writeValue(s, v)
	}
	if !w.dumped {
		w.w.WriteString("$end\n")
		w.dumped = true
	}
	w.last = t
	// bufio.Writer errors are sticky, so checking here covers all the
	// writes above.
	if _, err := w.w.Write(nil); err != nil {
		return errors.Wrap(err, "vcd")
	}
	return nil
}

// Close flushes buffered data and closes the file.
//
func (w *Writer) Close() error {
	if w.f == nil {
		return errors.New("vcd: not open")
	}
	ferr := w.w.Flush()
	cerr := w.f.Close()
	w.f, w.w = nil, nil
	if ferr != nil {
		return errors.Wrap(ferr, "vcd: flush")
	}
	return errors.Wrap(cerr, "vcd: close")
}

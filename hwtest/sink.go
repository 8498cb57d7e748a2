// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"strings"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

// Sample is a snapshot of all registered signals taken by RecordingSink.Dump.
type Sample struct {
	Time   hwbench.Time
	Values map[string]uint64
}

// RecordingSink is a hwbench.Sink that keeps everything in memory. Errors can
// be injected for each operation.
//
// Signals are keyed by their dot separated hierarchical name.
//
type RecordingSink struct {
	OpenErr  error
	CloseErr error
	DumpErr  error
	// DumpErrAt restricts DumpErr to the dump at that time. If zero, every
	// dump fails.
	DumpErrAt hwbench.Time

	Path    string
	Signals []string
	Samples []Sample
	Opens   int
	Closes  int

	values []func() uint64
	widths []int
	open   bool
}

var _ hwbench.Sink = (*RecordingSink)(nil)

// Register implements hwbench.Registry.
func (s *RecordingSink) Register(scope []string, name string, width int, value func() uint64) {
	full := name
	if len(scope) > 0 {
		full = strings.Join(scope, ".") + "." + name
	}
	s.Signals = append(s.Signals, full)
	s.values = append(s.values, value)
	s.widths = append(s.widths, width)
}

// Open implements hwbench.Sink.
func (s *RecordingSink) Open(path string) error {
	s.Opens++
	if s.OpenErr != nil {
		return s.OpenErr
	}
	if s.open {
		return errors.New("recording sink: already open")
	}
	s.Path = path
	s.open = true
	return nil
}

// Dump implements hwbench.Sink.
func (s *RecordingSink) Dump(t hwbench.Time) error {
	if !s.open {
		return errors.New("recording sink: not open")
	}
	if s.DumpErr != nil && (s.DumpErrAt == 0 || s.DumpErrAt == t) {
		return s.DumpErr
	}
	vs := make(map[string]uint64, len(s.Signals))
	for i, n := range s.Signals {
		vs[n] = hwbench.Mask(s.values[i](), s.widths[i])
	}
	s.Samples = append(s.Samples, Sample{Time: t, Values: vs})
	return nil
}

// Close implements hwbench.Sink.
func (s *RecordingSink) Close() error {
	s.Closes++
	if !s.open {
		return errors.New("recording sink: not open")
	}
	s.open = false
	return s.CloseErr
}

// Times returns the times of all recorded samples.
func (s *RecordingSink) Times() []hwbench.Time {
	ts := make([]hwbench.Time, len(s.Samples))
	for i := range s.Samples {
		ts[i] = s.Samples[i].Time
	}
	return ts
}

// Value returns the value of the named signal recorded at time t.
func (s *RecordingSink) Value(t hwbench.Time, name string) (uint64, bool) {
	for i := range s.Samples {
		if s.Samples[i].Time == t {
			v, ok := s.Samples[i].Values[name]
			return v, ok
		}
	}
	return 0, false
}

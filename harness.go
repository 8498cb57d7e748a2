// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// An Option configures a Harness.
//
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger used to report phase changes and cycles.
// By default, nothing is logged.
//
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Harness drives one simulation run of a design of type D.
//
// A Harness owns its DUT and its Sink for its whole lifetime. Callers must
// call Close once the harness is no longer needed in order to close the
// waveform trace.
//
type Harness[D DUT] struct {
	top  D
	sink Sink
	path string
	cfg  Config
	log  *slog.Logger

	time   Time
	cycles uint64
	phase  Phase
	closed bool
}

// Open builds a new design with newDUT, registers its signals with sink and
// opens the waveform trace at path.
//
func Open[D DUT](newDUT Factory[D], sink Sink, path string, cfg Config, opts ...Option) (*Harness[D], error) {
	if sink == nil {
		return nil, errors.New("nil waveform sink")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	top, err := newDUT()
	if err != nil {
		return nil, errors.Wrap(err, "build design")
	}
	if err = bindPorts(top.Ports(), cfg); err != nil {
		return nil, err
	}

	top.Trace(sink, cfg.TraceDepth)
	if err = sink.Open(path); err != nil {
		return nil, &SinkError{Op: "open", Path: path, Err: err}
	}

	o.log.Info("trace opened", "path", path, "depth", cfg.TraceDepth, "reset_window", cfg.ResetWindow)
	return &Harness[D]{
		top:  top,
		sink: sink,
		path: path,
		cfg:  cfg,
		log:  o.log,
	}, nil
}

// bindPorts checks that the configured clock, reset and done ports exist
// with the proper direction.
//
func bindPorts(ports []Port, cfg Config) error {
	m := make(map[string]Port, len(ports))
	for _, p := range ports {
		m[p.Name] = p
	}
	for _, b := range []struct {
		name string
		dir  Direction
	}{
		{cfg.Clock, Driven},
		{cfg.Reset, Driven},
		{cfg.Done, Observed},
	} {
		p, ok := m[b.name]
		if !ok {
			return &PortError{Port: b.name, Reason: "no such port"}
		}
		if p.Dir != b.dir {
			return &PortError{Port: b.name, Reason: "must be " + b.dir.String() + ", is " + p.Dir.String()}
		}
	}
	return nil
}

// Top returns the design under test. Ports of the design can be manipulated
// directly, for example in order to check pre-conditions before RunUntilDone.
//
func (h *Harness[D]) Top() D { return h.top }

// Time returns the current simulation time.
//
func (h *Harness[D]) Time() Time { return h.time }

// Cycles returns the number of full clock cycles run so far.
//
func (h *Harness[D]) Cycles() uint64 { return h.cycles }

// Phase returns the current phase of the run.
//
func (h *Harness[D]) Phase() Phase { return h.phase }

// Config returns the harness configuration.
//
func (h *Harness[D]) Config() Config { return h.cfg }

// Eval evaluates the design once without advancing time or dumping a trace
// sample.
//
func (h *Harness[D]) Eval() error {
	if h.closed {
		return ErrClosed
	}
	if err := h.top.Eval(); err != nil {
		return &EvalError{Time: h.time, Err: err}
	}
	return nil
}

// Step runs a whole clock cycle: a rising edge followed by a falling edge.
// Each edge advances the time by one, evaluates the design and dumps a trace
// sample. Step does not touch any port other than the clock.
//
func (h *Harness[D]) Step() error {
	if err := h.edge(1); err != nil {
		return err
	}
	if err := h.edge(0); err != nil {
		return err
	}
	h.cycles++
	return nil
}

func (h *Harness[D]) edge(clk uint64) error {
	if h.closed {
		return ErrClosed
	}
	h.time++
	if err := h.top.Set(h.cfg.Clock, clk); err != nil {
		return errors.Wrap(err, "drive clock")
	}
	if err := h.top.Eval(); err != nil {
		return &EvalError{Time: h.time, Err: err}
	}
	if err := h.sink.Dump(h.time); err != nil {
		return &SinkError{Op: "dump", Path: h.path, Err: err}
	}
	return nil
}

// Done reads the completion output.
//
func (h *Harness[D]) Done() (bool, error) {
	if h.closed {
		return false, ErrClosed
	}
	v, err := h.top.Get(h.cfg.Done)
	if err != nil {
		return false, errors.Wrap(err, "read completion output")
	}
	return v != 0, nil
}

// RunUntilDone runs clock cycles until the completion output reads asserted
// at the end of a cycle and returns the simulation time at that point.
//
// Before each cycle, reset is driven according to ResetAsserted. There is no
// cycle limit: if the design never completes, RunUntilDone never returns.
//
func (h *Harness[D]) RunUntilDone() (Time, error) {
	for {
		if h.closed {
			return h.time, ErrClosed
		}
		rst := ResetAsserted(h.time, h.cfg.ResetWindow)
		if err := h.top.Set(h.cfg.Reset, bit(rst)); err != nil {
			return h.time, errors.Wrap(err, "drive reset")
		}
		h.enter(phaseFor(rst))

		if err := h.Step(); err != nil {
			return h.time, err
		}
		done, err := h.Done()
		if err != nil {
			return h.time, err
		}
		h.log.Debug("cycle", "cycle", h.cycles, "time", h.time, "reset", rst)
		if done {
			h.enter(Done)
			return h.time, nil
		}
	}
}

func (h *Harness[D]) enter(p Phase) {
	if p == h.phase {
		return
	}
	h.log.Info("phase", "from", h.phase, "to", p, "time", h.time)
	h.phase = p
}

// Close closes the waveform trace. Only the first call has any effect.
//
func (h *Harness[D]) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if err := h.sink.Close(); err != nil {
		return &SinkError{Op: "close", Path: h.path, Err: err}
	}
	h.log.Info("trace closed", "path", h.path, "time", h.time, "cycles", h.cycles)
	return nil
}

// Run opens a harness, runs it until the design completes and closes it.
// The trace is closed on every exit path, including panics raised by the
// design. It returns the simulation time at which completion was observed.
//
func Run[D DUT](newDUT Factory[D], sink Sink, path string, cfg Config, opts ...Option) (t Time, err error) {
	h, err := Open(newDUT, sink, path, cfg, opts...)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := h.Close(); err == nil {
			err = cerr
		}
	}()
	return h.RunUntilDone()
}

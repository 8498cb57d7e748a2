// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

// A Registry collects the signals to be traced.
//
// scope is the path of the signal in the design hierarchy, outermost first.
// value is called by the sink whenever it needs the current signal value.
//
type Registry interface {
	Register(scope []string, name string, width int, value func() uint64)
}

// A Sink records waveform traces.
//
// The harness calls Open once, Dump once per half-edge with strictly
// increasing times, then Close once. Signals are registered before Open.
//
type Sink interface {
	Registry
	Open(path string) error
	Dump(t Time) error
	Close() error
}

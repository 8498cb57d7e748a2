// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

// ResetAsserted reports whether reset must read asserted at time t for a
// reset window of the given length. A zero window never asserts reset.
//
func ResetAsserted(t, window Time) bool {
	return t < window
}

// Phase is the state of a run.
//
type Phase int

// Run phases. A run moves from Idle to Reset, Running and finally Done.
// Failures are reported as errors, not as a phase.
//
const (
	Idle Phase = iota
	Reset
	Running
	Done
)

var phaseNames = [...]string{
	Idle:    "idle",
	Reset:   "reset",
	Running: "running",
	Done:    "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Phase(?)"
	}
	return phaseNames[p]
}

func phaseFor(reset bool) Phase {
	if reset {
		return Reset
	}
	return Running
}

func bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

/*
Package hwbench drives cycle-accurate simulations of synchronous designs.

A design under test (DUT) is an opaque, clock-driven state machine exposing
named ports. The harness owns the DUT and a waveform sink for exactly one run:
it sequences a reset window, advances the clock one half-edge at a time, dumps
a trace sample after each half-edge and polls a completion output after every
full cycle.

Time is counted in half-edges. A full clock cycle is two half-edges: the clock
is driven high, the design evaluated and a sample dumped, then the clock is
driven low, the design evaluated and a second sample dumped.

A typical run:

	h, err := hwbench.Open(circuit.NewDUT(hwlib.TimerBench(4, 10)), vcd.NewWriter(), "timer.vcd", hwbench.DefaultConfig())
	if err != nil {
		return err
	}
	defer h.Close()
	t, err := h.RunUntilDone()

Run wraps the above and guarantees that the sink is closed on every exit path.

The run loop is unbounded: a design that never asserts its completion output
never returns.
*/
package hwbench

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"
	"strings"

	"github.com/db47h/hwbench/circuit"
)

// busRange returns "name[0..bits-1]".
func busRange(name string, bits int) string {
	return name + "[0.." + strconv.Itoa(bits-1) + "]"
}

// TimerBench returns a test bench that counts clock cycles once reset is
// released and asserts done while the count equals target.
//
//	Inputs: reset
//	Outputs: done, count[bits]
//
// Under a reset window of w half-edges (w even, possibly 0), done is first
// observed at the end of the cycle ending at time w + 2*target. TimerBench panics if
// target is not in the range [1, 2^bits).
//
func TimerBench(bits int, target uint64) circuit.NewPartFn {
	if bits <= 0 || bits > 64 {
		panic("TimerBench: invalid bus width " + strconv.Itoa(bits))
	}
	if target == 0 || bits < 64 && target >= 1<<uint(bits) {
		panic("TimerBench: target " + strconv.FormatUint(target, 10) + " out of range")
	}
	var k strings.Builder
	for i := 0; i < bits; i++ {
		k.WriteString(", b[")
		k.WriteString(strconv.Itoa(i))
		k.WriteString("]=")
		if target&(1<<uint(i)) != 0 {
			k.WriteString(circuit.True)
		} else {
			k.WriteString(circuit.False)
		}
	}
	count, next := busRange("count", bits), busRange("next", bits)
	return circuit.MustChip("TimerBench", "reset", "done, count["+strconv.Itoa(bits)+"]",
		Register(bits)(busRange("in", bits)+"="+next+", reset=reset, "+busRange("out", bits)+"="+count),
		Inc(bits)(busRange("in", bits)+"="+count+", "+busRange("out", bits)+"="+next),
		EqualN(bits)(busRange("a", bits)+"="+count+k.String()+", out=hit"),
		AndNot("a=hit, b=reset, out=done"),
	)
}

// RingOscillator returns a design containing an unclocked inverter loop.
// Its evaluation never settles.
//
//	Inputs: reset
//	Outputs: done
//
func RingOscillator() circuit.NewPartFn {
	return circuit.MustChip("RingOscillator", "reset", "done",
		Not("in=loop, out=loop"),
		And("a=loop, b=reset, out=done"),
	)
}

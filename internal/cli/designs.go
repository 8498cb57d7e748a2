// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/circuit"
	"github.com/db47h/hwbench/hwlib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// runFunc runs a design to completion.
type runFunc func(o *RunOptions, sink hwbench.Sink, path string, cfg hwbench.Config, log *slog.Logger) (hwbench.Time, error)

type design struct {
	help string
	run  runFunc
}

var designs = map[string]design{
	"timer": {
		help: "counts --target cycles on a --bits wide register, then asserts done",
		run: func(o *RunOptions, sink hwbench.Sink, path string, cfg hwbench.Config, log *slog.Logger) (hwbench.Time, error) {
			if o.Bits < 1 || o.Bits > 64 {
				return 0, errors.Errorf("timer: invalid width %d", o.Bits)
			}
			if o.Target == 0 || o.Bits < 64 && o.Target >= 1<<uint(o.Bits) {
				return 0, errors.Errorf("timer: target %d out of range for %d bits", o.Target, o.Bits)
			}
			return hwbench.Run(circuit.NewDUT(hwlib.TimerBench(o.Bits, o.Target)), sink, path, cfg, hwbench.WithLogger(log))
		},
	},
	"oscillator": {
		help: "unclocked inverter loop that never settles",
		run: func(o *RunOptions, sink hwbench.Sink, path string, cfg hwbench.Config, log *slog.Logger) (hwbench.Time, error) {
			return hwbench.Run(circuit.NewDUT(hwlib.RingOscillator()), sink, path, cfg, hwbench.WithLogger(log))
		},
	},
}

func designNames() []string {
	names := make([]string, 0, len(designs))
	for n := range designs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDesignsCommand creates the designs command.
func NewDesignsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "designs",
		Short:         "List available designs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range designNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", n, designs[n].help)
			}
			return nil
		},
	}
}

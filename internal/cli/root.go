// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// logger returns a text logger writing to w. Cycles are logged in verbose
// mode only.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand creates the root command for the hwbench CLI. Invoked with a
// single trace path argument, it behaves like the run command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	runOpts := &RunOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "hwbench [flags] <trace-path>",
		Short: "Cycle-accurate simulation driver",
		Long: `Drive a design under test through a reset window and clock cycles until
it asserts its completion output, recording a waveform trace of every
half clock edge.

The trace path is placed under $TEST_UNDECLARED_OUTPUTS_DIR when that
variable is set and the path is relative.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(runOpts, cmd, args[0])
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every clock cycle")
	addRunFlags(cmd, runOpts)

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewDesignsCommand(opts))

	return cmd
}

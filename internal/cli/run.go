// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/db47h/hwbench"
	"github.com/db47h/hwbench/tracedb"
	"github.com/db47h/hwbench/vcd"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// Trace formats.
const (
	FormatVCD    = "vcd"
	FormatSQLite = "sqlite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config     string
	Design     string
	Format     string
	Bits       int
	Target     uint64
	CPUProfile string
}

func addRunFlags(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVarP(&opts.Design, "design", "d", "timer", "design to simulate (see designs command)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "trace format (vcd|sqlite), defaults from the file extension")
	cmd.Flags().IntVar(&opts.Bits, "bits", 8, "timer register width")
	cmd.Flags().Uint64Var(&opts.Target, "target", 100, "timer cycle count")
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "write a CPU profile to this directory")
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [flags] <trace-path>",
		Short: "Run a design until it completes",
		Long: `Run a design until it asserts its completion output.

Examples:
  hwbench run timer.vcd
  hwbench run --design timer --bits 4 --target 10 timer.db
  hwbench run --config bench.yaml --format sqlite out.trace`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, cmd, args[0])
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

// traceFormat returns the trace format for path. An explicit format takes
// precedence over the file extension.
func traceFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case FormatVCD:
		return FormatVCD, nil
	case FormatSQLite:
		return FormatSQLite, nil
	case "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".db", ".sqlite":
			return FormatSQLite, nil
		}
		return FormatVCD, nil
	}
	return "", Exitf(ExitFailure, "invalid format %q: must be one of vcd, sqlite", format)
}

func runRun(opts *RunOptions, cmd *cobra.Command, path string) error {
	cfg := hwbench.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = hwbench.LoadConfig(opts.Config); err != nil {
			return err
		}
	}
	d, ok := designs[opts.Design]
	if !ok {
		return Exitf(ExitFailure, "unknown design %q: must be one of %v", opts.Design, designNames())
	}
	format, err := traceFormat(opts.Format, path)
	if err != nil {
		return err
	}

	var (
		sink  hwbench.Sink
		runID string
	)
	if format == FormatSQLite {
		s := tracedb.NewSink()
		sink, runID = s, s.RunID
	} else {
		sink = vcd.NewWriter()
	}

	if opts.CPUProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.CPUProfile), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	path = hwbench.OutputPath(path)
	t, err := d.run(opts, sink, path, cfg, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: done at time %d\n", opts.Design, t)
	fmt.Fprintf(out, "trace: %s\n", path)
	if runID != "" {
		fmt.Fprintf(out, "run: %s\n", runID)
	}
	return nil
}

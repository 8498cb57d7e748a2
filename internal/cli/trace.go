// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/db47h/hwbench/tracedb"
	"github.com/spf13/cobra"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Run      string // defaults to the latest run
	Signal   string // optional
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect a trace recorded in SQLite format",
		Long: `Inspect a trace recorded in SQLite format.

Without --signal, lists the runs in the database and the signals of the
selected run. With --signal, prints the value changes of that signal.

Examples:
  hwbench trace --db timer.db
  hwbench trace --db timer.db --signal TimerBench.done
  hwbench trace --db timer.db --run 0b4c... --signal count`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run identifier (defaults to the latest run)")
	cmd.Flags().StringVar(&opts.Signal, "signal", "", "signal to print")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	// opening a missing file would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExit(ExitFailure, err, "failed to open database")
	}
	db, err := tracedb.OpenDB(opts.Database)
	if err != nil {
		return WrapExit(ExitFailure, err, "failed to open database")
	}
	defer db.Close()

	runs, err := db.Runs(ctx)
	if err != nil {
		return WrapExit(ExitFailure, err, "failed to list runs")
	}
	if len(runs) == 0 {
		return Exitf(ExitFailure, "no runs in %s", opts.Database)
	}
	runID := opts.Run
	if runID == "" {
		runID = runs[len(runs)-1].ID
	}

	if opts.Signal != "" {
		samples, err := db.Samples(ctx, runID, opts.Signal)
		if err != nil {
			return WrapExit(ExitFailure, err, "failed to read samples")
		}
		for _, s := range samples {
			fmt.Fprintf(out, "%d\t%d\n", s.Time, s.Value)
		}
		return nil
	}

	for _, r := range runs {
		mark := " "
		if r.ID == runID {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  %s\n", mark, r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Path)
	}
	sigs, err := db.Signals(ctx, runID)
	if err != nil {
		return WrapExit(ExitFailure, err, "failed to list signals")
	}
	if len(sigs) == 0 {
		return Exitf(ExitFailure, "no signals for run %s", runID)
	}
	fmt.Fprintln(out)
	for _, s := range sigs {
		fmt.Fprintf(out, "%s\t%d\n", s.FullName(), s.Width)
	}
	return nil
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cli

import (
	"fmt"
	"io"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0 // completion observed
	ExitFailure = 1 // any failure
)

// ExitError attaches a process exit code to an error.
//
type ExitError struct {
	Code int
	err  error
}

func (e *ExitError) Error() string { return e.err.Error() }

// Cause returns the underlying error.
func (e *ExitError) Cause() error { return e.err }

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.err }

// Exitf returns an ExitError with the given code and a formatted message.
//
func Exitf(code int, format string, args ...interface{}) error {
	return &ExitError{Code: code, err: errors.Errorf(format, args...)}
}

// WrapExit annotates err with message and attaches the given exit code.
// It returns nil if err is nil.
//
func WrapExit(code int, err error, message string) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, err: errors.Wrap(err, message)}
}

// ExitCode returns the exit code attached to err, ExitSuccess for a nil
// error and ExitFailure for any other error.
//
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}

// Execute runs the hwbench command line with the given arguments and returns
// the process exit code.
//
// Failures, including panics raised by a design, are reported on stderr as
// "ERROR: <message>". Panics that do not carry an error are reported as an
// unknown failure.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			report(stderr, r)
			code = ExitFailure
		}
	}()

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		report(stderr, err)
		return ExitCode(err)
	}
	return ExitSuccess
}

func report(w io.Writer, v interface{}) {
	msg, _ := hwbench.Describe(v)
	fmt.Fprintf(w, "ERROR: %s\n", msg)
}

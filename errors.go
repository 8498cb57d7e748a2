// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrClosed is returned by harness operations after Close.
//
var ErrClosed = errors.New("harness closed")

// EvalError wraps a failure reported by a design's Eval method.
//
type EvalError struct {
	Time Time
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate at time %d: %v", e.Time, e.Err)
}

// Cause returns the underlying error.
func (e *EvalError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *EvalError) Unwrap() error { return e.Err }

// SinkError wraps a waveform sink failure.
//
type SinkError struct {
	Op   string // open, dump or close
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("trace %s %s: %v", e.Op, e.Path, e.Err)
}

// Cause returns the underlying error.
func (e *SinkError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *SinkError) Unwrap() error { return e.Err }

// PortError reports a port that cannot serve its configured role.
//
type PortError struct {
	Port   string
	Reason string
}

func (e *PortError) Error() string {
	return "port " + e.Port + ": " + e.Reason
}

// Describe classifies a failure that unwound out of a run. v is either an
// error returned by the harness or a value recovered from a panic.
//
// Errors are recognized and described by their message. Any other panic
// value is unrecognized and gets a generic description.
//
func Describe(v interface{}) (msg string, recognized bool) {
	if err, ok := v.(error); ok {
		return err.Error(), true
	}
	return "unknown failure", false
}

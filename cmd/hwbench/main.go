// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command hwbench runs a design under test until it completes, recording a
// waveform trace.
package main

import (
	"os"

	"github.com/db47h/hwbench/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

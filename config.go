// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwbench

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputDirEnv names the environment variable set by automated test runners
// to collect output files.
//
const OutputDirEnv = "TEST_UNDECLARED_OUTPUTS_DIR"

// Config holds the harness settings.
//
type Config struct {
	Clock string `yaml:"clock"` // clock input port
	Reset string `yaml:"reset"` // reset input port
	Done  string `yaml:"done"`  // completion output port

	// ResetWindow is the number of half-edges during which reset is asserted.
	ResetWindow Time `yaml:"reset_window"`
	// TraceDepth bounds the hierarchy depth of traced signals.
	TraceDepth int `yaml:"trace_depth"`
}

// DefaultConfig returns a Config for designs with ports named clock, reset
// and done, holding reset for 10 cycles.
//
func DefaultConfig() Config {
	return Config{
		Clock:       "clock",
		Reset:       "reset",
		Done:        "done",
		ResetWindow: 10 * 2,
		TraceDepth:  100,
	}
}

// Validate checks the configuration.
//
func (c Config) Validate() error {
	switch {
	case c.Clock == "":
		return errors.New("config: no clock port")
	case c.Reset == "":
		return errors.New("config: no reset port")
	case c.Done == "":
		return errors.New("config: no done port")
	case c.Clock == c.Reset:
		return errors.Errorf("config: clock and reset share port %q", c.Clock)
	case c.TraceDepth < 0:
		return errors.Errorf("config: negative trace depth %d", c.TraceDepth)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Missing keys keep their
// DefaultConfig value.
//
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err = yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// OutputPath returns the path where a trace file with the given name should
// be written. Relative names are placed under the directory named by
// OutputDirEnv when it is set.
//
func OutputPath(name string) string {
	dir := os.Getenv(OutputDirEnv)
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/hwbench"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "trace", "designs"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	for _, name := range []string{"config", "design", "format", "bits", "target", "cpuprofile"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestRunVCD(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(hwbench.OutputDirEnv, dir)

	code, out, errOut := execute(t, "--bits", "4", "--target", "10", "timer.vcd")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "timer: done at time 40\n")
	assert.Contains(t, out, filepath.Join(dir, "timer.vcd"))
	assert.Contains(t, errOut, "msg=\"trace closed\"")
	assert.NotContains(t, errOut, "msg=cycle")

	b, err := os.ReadFile(filepath.Join(dir, "timer.vcd"))
	require.NoError(t, err)
	vcd := string(b)
	assert.True(t, strings.HasPrefix(vcd, "$version hwbench $end\n"))
	assert.Contains(t, vcd, "$scope module TimerBench $end\n")
	assert.Contains(t, vcd, "\n#40\n")
	assert.NotContains(t, vcd, "\n#41\n")
}

func TestRunSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(hwbench.OutputDirEnv, dir)
	cfg := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("reset_window: 4\ntrace_depth: 1\n"), 0644))

	code, out, errOut := execute(t, "run", "-v", "--config", cfg, "--bits", "3", "--target", "5", "timer.db")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "timer: done at time 14\n")
	assert.Contains(t, out, "run: ")
	assert.Contains(t, errOut, "msg=cycle")

	db := filepath.Join(dir, "timer.db")
	code, out, errOut = execute(t, "trace", "--db", db)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "TimerBench.done\t1\n")
	assert.Contains(t, out, "TimerBench.count\t3\n")

	code, out, errOut = execute(t, "trace", "--db", db, "--signal", "done")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Equal(t, "1\t0\n13\t1\n", out)
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(hwbench.OutputDirEnv, dir)

	td := []struct {
		name string
		args []string
		err  string
	}{
		{"oscillator", []string{"--design", "oscillator", "osc.vcd"},
			"ERROR: evaluate at time 1: RingOscillator: not settled after 7 steps\n"},
		{"unknown design", []string{"--design", "cpu", "x.vcd"},
			"ERROR: unknown design \"cpu\": must be one of [oscillator timer]\n"},
		{"bad format", []string{"--format", "fst", "x.vcd"},
			"ERROR: invalid format \"fst\": must be one of vcd, sqlite\n"},
		{"bad target", []string{"--bits", "4", "--target", "16", "x.vcd"},
			"ERROR: timer: target 16 out of range for 4 bits\n"},
		{"missing config", []string{"--config", filepath.Join(dir, "none.yaml"), "x.vcd"},
			"ERROR: read config: open " + filepath.Join(dir, "none.yaml") + ": no such file or directory\n"},
		{"no argument", nil, "ERROR: accepts 1 arg(s), received 0\n"},
		{"missing db", []string{"trace", "--db", filepath.Join(dir, "none.db")},
			"ERROR: failed to open database: stat " + filepath.Join(dir, "none.db") + ": no such file or directory\n"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			code, _, errOut := execute(t, d.args...)
			assert.Equal(t, ExitFailure, code)
			assert.True(t, strings.HasSuffix(errOut, d.err), "stderr: %q", errOut)
		})
	}
}

func TestTraceFormat(t *testing.T) {
	td := []struct {
		format, path, exp string
	}{
		{"", "out.vcd", FormatVCD},
		{"", "out.db", FormatSQLite},
		{"", "out.SQLITE", FormatSQLite},
		{"", "out", FormatVCD},
		{"sqlite", "out.vcd", FormatSQLite},
		{"VCD", "out.db", FormatVCD},
	}
	for _, d := range td {
		f, err := traceFormat(d.format, d.path)
		require.NoError(t, err)
		assert.Equal(t, d.exp, f, "%s %s", d.format, d.path)
	}
	_, err := traceFormat("fst", "out.fst")
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestDesigns(t *testing.T) {
	code, out, _ := execute(t, "designs")
	require.Equal(t, ExitSuccess, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "oscillator"))
	assert.True(t, strings.HasPrefix(lines[1], "timer"))
}

func TestExecuteRecoversPanics(t *testing.T) {
	designs["panic"] = design{run: func(*RunOptions, hwbench.Sink, string, hwbench.Config, *slog.Logger) (hwbench.Time, error) {
		panic(42)
	}}
	defer delete(designs, "panic")

	code, _, errOut := execute(t, "--design", "panic", filepath.Join(t.TempDir(), "p.vcd"))
	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "ERROR: unknown failure\n", errOut)
}

func TestExitError(t *testing.T) {
	err := WrapExit(ExitFailure, os.ErrNotExist, "failed")
	assert.Equal(t, "failed: file does not exist", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, os.ErrNotExist, errors.Cause(err))
	assert.Nil(t, WrapExit(ExitFailure, nil, "failed"))

	err = Exitf(ExitSuccess, "plain %d", 1)
	assert.Equal(t, "plain 1", err.Error())
	assert.Equal(t, ExitSuccess, ExitCode(err))
	assert.Equal(t, ExitSuccess, ExitCode(errors.Wrap(err, "outer")))
	assert.Equal(t, ExitFailure, ExitCode(os.ErrNotExist))
	assert.Equal(t, ExitSuccess, ExitCode(nil))
}

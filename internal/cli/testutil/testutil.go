// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/leapstack-labs/codepad/internal/cli/config"
	"github.com/spf13/cobra"
)

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Result is the captured outcome of one command execution.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// ExecuteCommand runs cmd with args from an empty working directory so no
// stray codepad.yaml is picked up, capturing both output streams.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

package commands_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/commands"
)

const (
	testDataDir = "../../testdata"
	testSession = "1010101010"
)

// runFinsight executes the CLI in-process and returns its stdout.
func runFinsight(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// runOnTestData runs a command against the shared fixture session.
func runOnTestData(t *testing.T, args ...string) string {
	t.Helper()
	args = append([]string{"--data-dir", testDataDir, "--session", testSession}, args...)
	out, err := runFinsight(t, args...)
	require.NoError(t, err)
	return out
}

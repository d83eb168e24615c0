package maincmd

import (
	"bytes"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, mainer.ExitCode) {
	t.Helper()
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{
		Stdout: &buf,
		Stderr: &ebuf,
	}
	c := &Cmd{BuildVersion: "0.0.0", BuildDate: "2026-01-01"}
	full := append([]string{binName}, args...)
	code := c.Main(full, stdio)
	return buf.String(), ebuf.String(), code
}

func TestMainEvalPrintsResult(t *testing.T) {
	out, errOut, code := run(t, "-e", "1 + 2;")
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errOut)
	require.Equal(t, "3\n", out)
}

func TestMainEvalRuntimeErrorIsFailure(t *testing.T) {
	_, errOut, code := run(t, "-e", "1 / 0;")
	require.Equal(t, mainer.Failure, code)
	require.Contains(t, errOut, "Division by zero.")
}

func TestMainPrintShowsASTWithoutEvaluating(t *testing.T) {
	out, errOut, code := run(t, "-p", "1 / 0;")
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errOut)
	require.NotEmpty(t, out)
}

func TestMainHelp(t *testing.T) {
	out, _, code := run(t, "-h")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "usage: perlang")
}

func TestMainVersion(t *testing.T) {
	out, _, code := run(t, "-v")
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out, "0.0.0")
}

func TestMainCombiningEvalAndPrintIsInvalidArgs(t *testing.T) {
	_, _, code := run(t, "-e", "1;", "-p", "2;")
	require.Equal(t, mainer.InvalidArgs, code)
}

func TestMainNoArgsIsInvalidArgs(t *testing.T) {
	_, _, code := run(t)
	require.Equal(t, mainer.InvalidArgs, code)
}

func TestMainScriptArgvPopulatedFromTrailingArgs(t *testing.T) {
	out, errOut, code := run(t, "-e", "ARGV.pop();", "--", "hello")
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errOut)
	require.Equal(t, "hello\n", out)
}

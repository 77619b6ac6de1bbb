package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/debugger"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRunPrintsResult(t *testing.T) {
	path := writeFile(t, "sum.rsr", "let x = 20\nreturn x + 22")
	out, _, err := execute(t, "", "run", "--no-color", path)
	require.Nil(t, err)
	assert.Equal(t, "42\n", out)
}

func TestRunOutputFormats(t *testing.T) {
	path := writeFile(t, "map.rsr", `return {"b": [1, 2]}`)
	out, _, err := execute(t, "", "run", "--no-color", "-o", "json", path)
	require.Nil(t, err)
	assert.Equal(t, "{\n  \"b\": [\n    1,\n    2\n  ]\n}\n", out)

	path = writeFile(t, "str.rsr", `return "hi"`)
	out, _, err = execute(t, "", "run", "--no-color", "-o", "text", path)
	require.Nil(t, err)
	assert.Equal(t, "hi\n", out)

	_, _, err = execute(t, "", "run", "--no-color", "-o", "xml", path)
	require.NotNil(t, err)
	assert.Equal(t, "unknown output format: xml", err.Error())
}

func TestRunBreakpoint(t *testing.T) {
	path := writeFile(t, "double.rsr", "let a = 1\nlet b = a * 2\nreturn b")
	out, _, err := execute(t, "p a\nc\n", "run", "--no-color", "--break", "2", path)
	require.Nil(t, err)
	assert.Contains(t, out, "paused at "+path+":2 in <main> (breakpoint 1)\n")
	assert.Contains(t, out, debugger.DefaultPrompt)
	assert.Contains(t, out, "1\n")
	assert.True(t, strings.HasSuffix(out, "2\n"))
}

func TestRunConditionalBreakpointByBaseName(t *testing.T) {
	path := writeFile(t, "double.rsr", "let a = 1\nlet b = a * 2\nreturn b")
	out, _, err := execute(t, "", "run", "--no-color", "-b", "double.rsr:2 if a > 5", path)
	require.Nil(t, err)
	assert.Equal(t, "2\n", out)

	out, _, err = execute(t, "c\n", "run", "--no-color", "-b", "double.rsr:2 if a == 1", path)
	require.Nil(t, err)
	assert.Contains(t, out, "(breakpoint 1)")
}

func TestRunConfigFile(t *testing.T) {
	path := writeFile(t, "list.rsr", "let a = 1\nlet b = 2\nreturn nil")
	config := writeFile(t, "config.yaml", "breakpoints:\n  - \"2\"\nmax-items: 2\nprompt: \"dbg> \"\n")
	out, _, err := execute(t, "p [1, 2, 3, 4]\nc\n", "run", "--no-color", "--config", config, path)
	require.Nil(t, err)
	assert.Contains(t, out, "paused at "+path+":2 in <main> (breakpoint 1)\n")
	assert.Contains(t, out, "dbg> ")
	assert.Contains(t, out, "[1, 2, ... 2 more]\n")
}

func TestRunEnvironment(t *testing.T) {
	t.Setenv("RISORDBG_PROMPT", "env> ")
	path := writeFile(t, "pause.rsr", "dbg()\nreturn nil")
	out, _, err := execute(t, "c\n", "run", "--no-color", path)
	require.Nil(t, err)
	assert.Contains(t, out, "env> ")
	assert.Contains(t, out, "paused at "+path+":1 in <main> (pause)\n")
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "", "run", filepath.Join(t.TempDir(), "missing.rsr"))
	assert.NotNil(t, err)

	path := writeFile(t, "ok.rsr", "return 1")
	_, _, err = execute(t, "", "run", "--break", "x:y", path)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `invalid breakpoint "x:y"`)

	_, _, err = execute(t, "", "run", "--log-level", "loud", path)
	require.NotNil(t, err)
	assert.Equal(t, `invalid log level "loud"`, err.Error())

	_, _, err = execute(t, "", "run", "--config", filepath.Join(t.TempDir(), "none.yaml"), path)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "reading config")

	_, _, err = execute(t, "", "run")
	assert.NotNil(t, err)
}

func TestRunProgramError(t *testing.T) {
	path := writeFile(t, "fail.rsr", "let n = 1\nreturn n + nil")
	out, _, err := execute(t, "p n\nc\n", "run", "--no-color", path)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported operand types for +: int and nil")
	assert.Contains(t, out, "paused at "+path+":2 in <main> (error)\n")
}

func TestRunQuit(t *testing.T) {
	path := writeFile(t, "pause.rsr", "dbg()\nreturn 1")
	out, _, err := execute(t, "q\n", "run", "--no-color", path)
	assert.True(t, errors.Is(err, debugger.ErrQuit))
	assert.NotContains(t, out, "1\n")
}

func TestRunLogging(t *testing.T) {
	path := writeFile(t, "ok.rsr", "return 1")
	_, errOut, err := execute(t, "", "run", "--no-color", "--log-level", "info", path)
	require.Nil(t, err)
	assert.Contains(t, errOut, "INF")
	assert.Contains(t, errOut, "running script")

	_, errOut, err = execute(t, "", "run", "--no-color", path)
	require.Nil(t, err)
	assert.Empty(t, errOut)
}

func TestParseBreakpoint(t *testing.T) {
	bp, err := parseBreakpoint("12", "main.rsr")
	require.Nil(t, err)
	assert.Equal(t, "main.rsr", bp.Source)
	assert.Equal(t, 12, bp.Line)

	bp, err = parseBreakpoint(` "lib file.rsr":3 if n > 2 `, "main.rsr")
	require.Nil(t, err)
	assert.Equal(t, "lib file.rsr", bp.Source)
	assert.Equal(t, 3, bp.Line)
	assert.Equal(t, "n > 2", bp.Expr)

	_, err = parseBreakpoint("lib.rsr:0", "main.rsr")
	assert.NotNil(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.Nil(t, err)
	assert.Equal(t, "dev\n", out)

	out, _, err = execute(t, "", "version", "--no-color", "-o", "json")
	require.Nil(t, err)
	assert.Equal(t, "{\n  \"commit\": \"unknown\",\n  \"date\": \"unknown\",\n  \"version\": \"dev\"\n}\n", out)
}

package debugger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/builtins"
	"github.com/risor-io/risordbg/errz"
	"github.com/risor-io/risordbg/object"
	"github.com/risor-io/risordbg/parser"
	"github.com/risor-io/risordbg/vm"
)

// harness runs a script under a session driven by scripted input.
type harness struct {
	t      *testing.T
	vm     *vm.VirtualMachine
	s      *Session
	fn     *object.Function
	inputs []string
	states []State
	depths []int
	out    strings.Builder
}

func newHarness(t *testing.T, source string, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t}
	h.vm = vm.New(vm.WithStdout(&h.out))
	for name, fn := range builtins.Builtins() {
		h.vm.SetGlobal(name, fn)
	}
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("main"))
	require.Nil(t, err)
	h.vm.AddSource("main", source)
	h.fn = h.vm.Load(program, "main")

	opts = append([]Option{WithRead(h.read), WithWrite(h.write), WithColor(false)}, opts...)
	h.s = New(h.vm, opts...)
	h.vm.SetGlobal("dbg", h.s.Module("debugger"))
	return h
}

func (h *harness) read(prompt string) (string, error) {
	h.states = append(h.states, h.s.State())
	h.depths = append(h.depths, h.s.Depth())
	if len(h.inputs) == 0 {
		return "", io.EOF
	}
	line := h.inputs[0]
	h.inputs = h.inputs[1:]
	return line, nil
}

func (h *harness) write(text string) error {
	h.out.WriteString(text)
	return nil
}

func (h *harness) input(lines ...string) *harness {
	h.inputs = append(h.inputs, lines...)
	return h
}

func (h *harness) run() ([]object.Object, error) {
	return h.s.PCall(context.Background(), h.fn, nil, MultRet, nil)
}

var pausedRe = regexp.MustCompile(`(?m)^paused at (\S+) in (\S+) \(([^)]*)\)$`)

// pauses returns "location function (reason)" for every pause header.
func (h *harness) pauses() []string {
	var result []string
	for _, m := range pausedRe.FindAllStringSubmatch(h.out.String(), -1) {
		result = append(result, m[1]+" "+m[2]+" ("+m[3]+")")
	}
	return result
}

func TestBreakpointPausesOncePerVisit(t *testing.T) {
	h := newHarness(t, `let total = 0
for let i = 0; i < 3; i += 1 {
  total += i
}
return total`)
	_, err := h.s.Breakpoints().Add("main", 3, "")
	require.Nil(t, err)
	h.input("p i", "c", "p i", "c", "p i", "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(3)}, values)
	assert.Equal(t, []string{
		"main:3 <main> (breakpoint 1)",
		"main:3 <main> (breakpoint 1)",
		"main:3 <main> (breakpoint 1)",
	}, h.pauses())
	assert.Contains(t, h.out.String(), "0\n")
	assert.Contains(t, h.out.String(), "2\n")
	bp, ok := h.s.Breakpoints().Lookup("main", 3)
	require.True(t, ok)
	assert.Equal(t, 3, bp.HitCount)
	assert.Equal(t, StateRunning, h.s.State())
}

func TestConditionalBreakpoint(t *testing.T) {
	h := newHarness(t, `for let i = 0; i < 4; i += 1 {
  let sq = i * i
}`)
	_, err := h.s.Breakpoints().Add("main", 2, "i == 2")
	require.Nil(t, err)
	h.input("p i", "c")

	_, err = h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{"main:2 <main> (breakpoint 1)"}, h.pauses())
	assert.Contains(t, h.out.String(), "\n2\n")
}

func TestBreakpointConditionErrorNeverPauses(t *testing.T) {
	h := newHarness(t, `let n = 0
for let i = 0; i < 2; i += 1 {
  n += 1
}
return n`)
	_, err := h.s.Breakpoints().Add("main", 3, "missing > 0")
	require.Nil(t, err)

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(2)}, values)
	assert.Empty(t, h.pauses())
	assert.Empty(t, h.states)
	assert.Equal(t, 2, strings.Count(h.out.String(), "error: breakpoint main:3 condition: eval error: name error"))
	bp, _ := h.s.Breakpoints().Lookup("main", 3)
	assert.Equal(t, 0, bp.HitCount)
}

const stepSource = `function add(a, b) {
  let c = a + b
  return c
}
let x = add(1, 2)
let y = x * 2
return y`

func TestStepEntersCalls(t *testing.T) {
	h := newHarness(t, stepSource)
	h.s.Breakpoints().Add("main", 5, "")
	h.input("step", "s", "s", "s", "c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{
		"main:5 <main> (breakpoint 1)",
		"main:2 add (step)",
		"main:3 add (step)",
		"main:6 <main> (step)",
		"main:7 <main> (step)",
	}, h.pauses())
}

func TestNextStepsOverCalls(t *testing.T) {
	h := newHarness(t, stepSource)
	h.s.Breakpoints().Add("main", 5, "")
	h.input("next", "n", "c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{
		"main:5 <main> (breakpoint 1)",
		"main:6 <main> (step)",
		"main:7 <main> (step)",
	}, h.pauses())
}

func TestFinishRunsUntilReturn(t *testing.T) {
	h := newHarness(t, stepSource)
	h.s.Breakpoints().Add("main", 2, "")
	h.input("finish", "c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{
		"main:2 add (breakpoint 1)",
		"main:6 <main> (step)",
	}, h.pauses())
}

func TestEvalUndefinedVariableKeepsSessionPaused(t *testing.T) {
	h := newHarness(t, `let a = 1
dbg()
return a`)
	h.input("p nope", "p a", "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(1)}, values)
	assert.Contains(t, h.out.String(), `error: eval error: name error: undefined variable "nope"`)
	// A prompt after the failed evaluation, still paused.
	require.Len(t, h.states, 3)
	assert.Equal(t, []State{StatePaused, StatePaused, StatePaused}, h.states)
	assert.Contains(t, h.out.String(), "\n1\n")
}

func TestAutoAttachOnError(t *testing.T) {
	h := newHarness(t, `let a = 1
let b = nil
let c = a + b`)
	h.s.Breakpoints().Add("main", 3, "a > 5")
	h.input("where", "c")

	_, err := h.run()
	var userErr *UserProgramError
	require.True(t, errors.As(err, &userErr))
	var serr *errz.StructuredError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Location.Line)

	out := h.out.String()
	assert.Equal(t, []string{"main:3 <main> (error)"}, h.pauses())
	assert.Contains(t, out, "error: type error")
	assert.Contains(t, out, "   3 | let c = a + b\n")
	assert.Contains(t, out, "=> #0 main:3 in <main>\n")
	assert.NotContains(t, out, "#1")
}

func TestAutoAttachWhereListsLiveChain(t *testing.T) {
	h := newHarness(t, `function inner(x) {
  return x.missing
}
function outer() {
  return inner(1)
}
outer()`)
	h.input("where", "up", "p 1", "where", "c")

	_, err := h.run()
	require.NotNil(t, err)
	out := h.out.String()
	assert.Equal(t, []string{"main:2 inner (error)"}, h.pauses())
	assert.Contains(t, out, "=> #0 main:2 in inner\n   #1 main:5 in outer\n   #2 main:7 in <main>\n")
	assert.Contains(t, out, "   #0 main:2 in inner\n=> #1 main:5 in outer\n   #2 main:7 in <main>\n")
	assert.NotContains(t, out, EvalSource+":")
}

func TestBreakAddAndDelete(t *testing.T) {
	h := newHarness(t, `dbg()
let a = 1
let b = 2
let c = a + b
let d = c * 2
return d`)
	h.input(`break add "main":5 if true`, "c", "p c", `break delete "main":5`, "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(6)}, values)
	assert.Equal(t, []string{
		"main:1 <main> (pause)",
		"main:5 <main> (breakpoint 1)",
	}, h.pauses())
	assert.Contains(t, h.out.String(), "breakpoint 1 at main:5\n")
	assert.Contains(t, h.out.String(), "deleted breakpoint at main:5\n")
	assert.Equal(t, 0, h.s.Breakpoints().Len())

	// Run again: only the explicit pause remains.
	h.out.Reset()
	h.input("c")
	_, err = h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{"main:1 <main> (pause)"}, h.pauses())
}

func TestPrintSelfReferentialValue(t *testing.T) {
	h := newHarness(t, `let m = {name: "root"}
m["self"] = m
dbg()`, WithConfig(Config{MaxDepth: 10, MaxItems: 100}))
	h.input("p m", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Contains(t, out, `{"name": "root", "self": <cycle ^1>}`)
	assert.Equal(t, 1, strings.Count(out, "<cycle"))
}

func TestLocalsUpvaluesAndFrames(t *testing.T) {
	h := newHarness(t, `function outer() {
  let count = 5
  function inner(a, ...rest) {
    let local = a + count
    return local
  }
  return inner(1, 2, 3)
}
outer()`)
	h.s.Breakpoints().Add("main", 5, "")
	h.input("locals", "up", "p count", "frame 9", "down", "list 1", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Contains(t, out, "a = 1\nrest = [2, 3]\nlocal = 6\n"+
		"upvalues:\n  count = 5\n  inner = function(inner)\n  outer = function(outer)\n"+
		"varargs: [2, 3]\n")
	assert.Contains(t, out, "=> #1 main:7 in outer\n5\n")
	assert.Contains(t, out, "error: invalid frame: 9 (stack has 3 frames)\n")
	assert.Contains(t, out, "=> #0 main:5 in inner\n")
	assert.Contains(t, out, "      4 |     let local = a + count\n=>    5 |     return local\n      6 |   }\n")
}

func TestEvalPatchesLiveState(t *testing.T) {
	h := newHarness(t, `let x = 1
dbg()
return x`)
	h.input("eval x = 42", "e let tmp = x + 1; return tmp", "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(42)}, values)
	assert.Contains(t, h.out.String(), "\n43\n")
}

func TestNestedQuitAbortsOnlyEvaluation(t *testing.T) {
	h := newHarness(t, `function f() {
  return 10
}
dbg()
return 1`)
	h.s.Breakpoints().Add("main", 2, "")
	h.input("p f()", "where", "q", "p 2", "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(1)}, values)
	assert.Equal(t, []string{
		"main:4 <main> (pause)",
		"main:2 f (breakpoint 1)",
	}, h.pauses())
	out := h.out.String()
	assert.Contains(t, out, "=> #0 main:2 in f\n   #1 main:4 in <main>\n")
	assert.Contains(t, out, "evaluation aborted\n")
	assert.Contains(t, out, "\n2\n")
	assert.Equal(t, []int{1, 2, 2, 1, 1}, h.depths)
	assert.Equal(t, StateRunning, h.s.State())
}

func TestNestedContinueFinishesEvaluation(t *testing.T) {
	h := newHarness(t, `function f() {
  return 10
}
dbg()`)
	h.s.Breakpoints().Add("main", 2, "")
	h.input("p f()", "c", "c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Contains(t, h.out.String(), "\n10\n")
}

func TestBreakOnEvalError(t *testing.T) {
	h := newHarness(t, `dbg()`, WithBreakOnEvalError(true))
	h.input("p 1 + nil", "where", "c", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Equal(t, []string{
		"main:1 <main> (pause)",
		"main:1 <main> (eval error)",
	}, h.pauses())
	assert.Equal(t, 2, strings.Count(out, "error: eval error: type error"))
}

func TestQuitTerminates(t *testing.T) {
	h := newHarness(t, `dbg()
print("after")`)
	h.input("quit")

	_, err := h.run()
	assert.True(t, errors.Is(err, ErrQuit))
	assert.Equal(t, StateTerminated, h.s.State())
	assert.NotContains(t, h.out.String(), "after")
}

func TestEndOfInputContinues(t *testing.T) {
	h := newHarness(t, `dbg()
print("after")`)

	_, err := h.run()
	require.Nil(t, err)
	assert.Contains(t, h.out.String(), "after\n")
}

func TestUnknownCommandKeepsPrompting(t *testing.T) {
	h := newHarness(t, `dbg()`)
	h.input("bogus", "frame x", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Contains(t, out, `error: frame: invalid number "x"`)
	assert.Len(t, h.states, 3)
}

func TestEmptyLineRepeatsLastCommand(t *testing.T) {
	h := newHarness(t, `dbg()
let a = 1
let b = 2
let c = 3`)
	h.input("n", "", "", "c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{
		"main:1 <main> (pause)",
		"main:2 <main> (step)",
		"main:3 <main> (step)",
		"main:4 <main> (step)",
	}, h.pauses())
}

func TestWatches(t *testing.T) {
	h := newHarness(t, `let n = 1
dbg()
n = 2
n = 3`)
	h.input("watch n * 10", "watch add missing", "watch list", "s", "watch delete 2", "s", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Contains(t, out, "watch 1: n * 10\nwatch 2: missing\n")
	assert.Contains(t, out, "watch 1: n * 10 = 10\nwatch 2: missing = <eval error: name error")
	assert.Contains(t, out, "watch 1: n * 10 = 20\n")
	assert.Contains(t, out, "deleted watch 2\n")
	assert.Equal(t, []*Watch{{ID: 1, Expr: "n * 10"}}, h.s.Watches())
}

func TestHelpGlobals(t *testing.T) {
	h := newHarness(t, `let local = 1
dbg()`)
	h.vm.SetGlobal("answer", object.NewInt(42))
	h.input("help globals", "c")

	_, err := h.run()
	require.Nil(t, err)
	out := h.out.String()
	assert.Contains(t, out, "\nanswer, append, assert, dbg, error, float, ")
	assert.NotContains(t, out, "local,")
}

func TestConditionCallingPauseDoesNotPause(t *testing.T) {
	h := newHarness(t, `let n = 1
n = 2
return n`)
	_, err := h.s.Breakpoints().Add("main", 2, "dbg() == nil && false")
	require.Nil(t, err)

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(2)}, values)
	assert.Empty(t, h.states)
	assert.Empty(t, h.pauses())
}

func TestWatchCallingPauseDoesNotPause(t *testing.T) {
	h := newHarness(t, `dbg()
return 1`)
	h.s.AddWatch("dbg()")
	h.input("c")

	_, err := h.run()
	require.Nil(t, err)
	assert.Len(t, h.states, 1)
	assert.Equal(t, []string{"main:1 <main> (pause)"}, h.pauses())
	assert.Contains(t, h.out.String(), "watch 1: dbg() = nil\n")
}

func TestPanicDuringPauseIsInternalError(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
	}{
		{"explicit", "dbg()\nreturn 1", 0},
		{"breakpoint", "let a = 1\nreturn a", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.source, WithWrite(func(text string) error {
				panic("boom")
			}))
			if tt.line > 0 {
				_, err := h.s.Breakpoints().Add("main", tt.line, "")
				require.Nil(t, err)
			}

			_, err := h.run()
			var internal *DebuggerInternalError
			require.True(t, errors.As(err, &internal))
			assert.Equal(t, "boom", internal.Value)
			assert.NotEmpty(t, internal.Stack)
			var userErr *UserProgramError
			assert.False(t, errors.As(err, &userErr))
			assert.Equal(t, StateTerminated, h.s.State())
			assert.Equal(t, 0, h.s.Depth())
			assert.Empty(t, h.states)
		})
	}
}

func TestHandlerDisablesAutoAttach(t *testing.T) {
	h := newHarness(t, `error("boom")`)
	var seen error
	_, err := h.s.PCall(context.Background(), h.fn, nil, 1, func(err error) error {
		seen = err
		return errors.New("handled")
	})
	require.NotNil(t, err)
	assert.Equal(t, "handled", err.Error())
	var userErr *UserProgramError
	require.True(t, errors.As(seen, &userErr))
	assert.Contains(t, userErr.Error(), "boom")
	assert.Empty(t, h.pauses())
}

func TestPCallAdjustsResults(t *testing.T) {
	h := newHarness(t, `return 7`)
	values, err := h.s.PCall(context.Background(), h.fn, nil, 3, nil)
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.NewInt(7), object.Nil, object.Nil}, values)

	values, err = h.s.PCall(context.Background(), h.fn, nil, 0, nil)
	require.Nil(t, err)
	assert.Empty(t, values)
	assert.False(t, h.s.Attached())
}

func TestScriptPcallDoesNotAttach(t *testing.T) {
	h := newHarness(t, `let r = pcall(error, "inner")
return r[0]`)

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []object.Object{object.False}, values)
	assert.Empty(t, h.pauses())
}

func TestModuleCall(t *testing.T) {
	h := newHarness(t, `function bad() {
  return 1 + nil
}
let r = dbg.call(bad)
print(r[0])
dbg.pp([1, {a: 2}])
return dbg.pretty({k: [1]})`)
	h.input("where", "c")

	values, err := h.run()
	require.Nil(t, err)
	assert.Equal(t, []string{"main:2 bad (error)"}, h.pauses())
	out := h.out.String()
	assert.Contains(t, out, "=> #0 main:2 in bad\n   #1 main:4 in <main>\n")
	assert.Contains(t, out, "false\n")
	assert.Contains(t, out, "[\n  1,\n  {\n    \"a\": 2\n  }\n]\n")
	assert.Equal(t, "{\n  \"k\": [\n    1\n  ]\n}", values[0].(*object.String).Value())
}

func TestModuleJSON(t *testing.T) {
	h := newHarness(t, `let m = {name: "a", items: [1, 2]}
m["self"] = m
return dbg.json(m)`)
	values, err := h.run()
	require.Nil(t, err)

	var decoded map[string]any
	require.Nil(t, json.Unmarshal([]byte(values[0].(*object.String).Value()), &decoded))
	assert.Equal(t, map[string]any{
		"name":  "a",
		"items": []any{float64(1), float64(2)},
		"self":  "<cycle ^1>",
	}, decoded)
}

func TestDetachRestoresObserver(t *testing.T) {
	h := newHarness(t, `return 1`)
	prev := vm.NoOpObserver{}
	h.vm.SetObserver(prev)
	h.s.Attach()
	assert.True(t, h.s.Attached())
	h.s.Detach()
	assert.Equal(t, vm.Observer(prev), h.vm.Observer())
}

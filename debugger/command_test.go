package debugger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected Command
	}{
		{"step", Command{Kind: CmdStep}},
		{"s", Command{Kind: CmdStep}},
		{"n", Command{Kind: CmdNext}},
		{"finish", Command{Kind: CmdFinish}},
		{"C", Command{Kind: CmdContinue}},
		{"p x + 1, y", Command{Kind: CmdPrint, Expr: "x + 1, y"}},
		{"eval  x = 2 ", Command{Kind: CmdEval, Expr: "x = 2"}},
		{"bt", Command{Kind: CmdWhere}},
		{"w", Command{Kind: CmdWhere}},
		{"list", Command{Kind: CmdList}},
		{"l 5", Command{Kind: CmdList, Count: 5}},
		{"locals", Command{Kind: CmdLocals}},
		{"up", Command{Kind: CmdUp, Count: 1}},
		{"down 2", Command{Kind: CmdDown, Count: 2}},
		{"frame 0", Command{Kind: CmdFrame}},
		{"break main:5", Command{Kind: CmdBreakAdd, Source: "main", Line: 5}},
		{`break add "main":5`, Command{Kind: CmdBreakAdd, Source: "main", Line: 5}},
		{`b 'my file.rsr':12 if n > 2`, Command{Kind: CmdBreakAdd, Source: "my file.rsr", Line: 12, Expr: "n > 2"}},
		{"break 7", Command{Kind: CmdBreakAdd, Line: 7}},
		{"break list", Command{Kind: CmdBreakList}},
		{"break", Command{Kind: CmdBreakList}},
		{`break delete "main":5`, Command{Kind: CmdBreakDelete, Source: "main", Line: 5}},
		{"watch x", Command{Kind: CmdWatchAdd, Expr: "x"}},
		{"watch add a.b", Command{Kind: CmdWatchAdd, Expr: "a.b"}},
		{"watch", Command{Kind: CmdWatchList}},
		{"watch delete 2", Command{Kind: CmdWatchDelete, Count: 2}},
		{"q", Command{Kind: CmdQuit}},
		{"help", Command{Kind: CmdHelp}},
		{"h builtins", Command{Kind: CmdHelp, Expr: "builtins"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := ParseCommand(tt.input)
			require.Nil(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "empty command"},
		{"jump 5", `unknown command "jump" (type "help" for a list of commands)`},
		{"print", "print requires an expression"},
		{"eval", "eval requires a statement"},
		{"step 2", "step takes no arguments"},
		{"up -1", `up: invalid number "-1"`},
		{"frame", "frame requires a frame number"},
		{"break main:x", `invalid line number "x"`},
		{"break main:0", `invalid line number "0"`},
		{`break "main:5`, `unterminated source name in "\"main:5"`},
		{`break "main" 5`, `expected ":line" after source name in "\"main\" 5"`},
		{"break main:5 when x", `expected "if <condition>" after location`},
		{"break delete", "expected a location such as main:5"},
		{"break delete main:5 if x", `unexpected "if x" after location`},
		{"watch delete", "watch delete requires a watch number"},
		{"watch add", "watch add requires an expression"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCommand(tt.input)
			require.NotNil(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestUnknownCommandIsErrUnknownCommand(t *testing.T) {
	_, err := ParseCommand("frobnicate")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "frobnicate", cmdErr.Input)
}

func TestCommandKind(t *testing.T) {
	assert.Equal(t, "break add", CmdBreakAdd.String())
	assert.Equal(t, "unknown", CommandKind(99).String())
	assert.True(t, CmdFinish.Resumes())
	assert.False(t, CmdPrint.Resumes())
}

package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies a debugger command.
type CommandKind int

const (
	CmdStep CommandKind = iota
	CmdNext
	CmdFinish
	CmdContinue
	CmdPrint
	CmdEval
	CmdWhere
	CmdList
	CmdLocals
	CmdUp
	CmdDown
	CmdFrame
	CmdBreakAdd
	CmdBreakDelete
	CmdBreakList
	CmdWatchAdd
	CmdWatchDelete
	CmdWatchList
	CmdQuit
	CmdHelp
)

var commandNames = map[CommandKind]string{
	CmdStep:        "step",
	CmdNext:        "next",
	CmdFinish:      "finish",
	CmdContinue:    "continue",
	CmdPrint:       "print",
	CmdEval:        "eval",
	CmdWhere:       "where",
	CmdList:        "list",
	CmdLocals:      "locals",
	CmdUp:          "up",
	CmdDown:        "down",
	CmdFrame:       "frame",
	CmdBreakAdd:    "break add",
	CmdBreakDelete: "break delete",
	CmdBreakList:   "break list",
	CmdWatchAdd:    "watch add",
	CmdWatchDelete: "watch delete",
	CmdWatchList:   "watch list",
	CmdQuit:        "quit",
	CmdHelp:        "help",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Resumes reports whether the command continues the program.
func (k CommandKind) Resumes() bool {
	switch k {
	case CmdStep, CmdNext, CmdFinish, CmdContinue:
		return true
	}
	return false
}

// Command is one parsed line of debugger input.
type Command struct {
	Kind CommandKind

	// Expr is the expression or statement text for print, eval, watch add
	// and the condition of break add. For help it is the topic.
	Expr string

	// Count is the argument of up, down, frame, list and watch delete.
	Count int

	// Source and Line locate a breakpoint. An empty Source means the
	// source of the current frame.
	Source string
	Line   int
}

var aliases = map[string]string{
	"s":  "step",
	"n":  "next",
	"f":  "finish",
	"c":  "continue",
	"p":  "print",
	"e":  "eval",
	"w":  "where",
	"bt": "where",
	"l":  "list",
	"u":  "up",
	"d":  "down",
	"b":  "break",
	"q":  "quit",
	"h":  "help",
	"?":  "help",
}

// ParseCommand parses a line of debugger input. Every line yields either a
// command or an error; it never panics.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	name, rest := splitWord(line)
	if name == "" {
		return Command{}, &CommandError{Input: line, Message: "empty command"}
	}
	name = strings.ToLower(name)
	if full, ok := aliases[name]; ok {
		name = full
	}

	switch name {
	case "step":
		return noArgs(CmdStep, line, rest)
	case "next":
		return noArgs(CmdNext, line, rest)
	case "finish":
		return noArgs(CmdFinish, line, rest)
	case "continue":
		return noArgs(CmdContinue, line, rest)
	case "where":
		return noArgs(CmdWhere, line, rest)
	case "locals":
		return noArgs(CmdLocals, line, rest)
	case "quit":
		return noArgs(CmdQuit, line, rest)
	case "help":
		return Command{Kind: CmdHelp, Expr: rest}, nil
	case "print":
		if rest == "" {
			return Command{}, &CommandError{Input: line, Message: "print requires an expression"}
		}
		return Command{Kind: CmdPrint, Expr: rest}, nil
	case "eval":
		if rest == "" {
			return Command{}, &CommandError{Input: line, Message: "eval requires a statement"}
		}
		return Command{Kind: CmdEval, Expr: rest}, nil
	case "up":
		return countArg(CmdUp, line, rest, 1)
	case "down":
		return countArg(CmdDown, line, rest, 1)
	case "list":
		return countArg(CmdList, line, rest, 0)
	case "frame":
		if rest == "" {
			return Command{}, &CommandError{Input: line, Message: "frame requires a frame number"}
		}
		return countArg(CmdFrame, line, rest, 0)
	case "break":
		return parseBreak(line, rest)
	case "watch":
		return parseWatch(line, rest)
	}
	return Command{}, &CommandError{
		Input:   line,
		Message: fmt.Sprintf("unknown command %q (type \"help\" for a list of commands)", name),
		Err:     ErrUnknownCommand,
	}
}

func parseBreak(line, rest string) (Command, error) {
	sub, args := splitWord(rest)
	switch strings.ToLower(sub) {
	case "list", "ls":
		return noArgs(CmdBreakList, line, args)
	case "":
		return Command{Kind: CmdBreakList}, nil
	case "delete", "del", "rm", "clear":
		source, lineNum, tail, err := parseLocation(args)
		if err != nil {
			return Command{}, &CommandError{Input: line, Message: err.Error()}
		}
		if tail != "" {
			return Command{}, &CommandError{Input: line, Message: fmt.Sprintf("unexpected %q after location", tail)}
		}
		return Command{Kind: CmdBreakDelete, Source: source, Line: lineNum}, nil
	case "add", "set":
		rest = args
	}
	source, lineNum, tail, err := parseLocation(rest)
	if err != nil {
		return Command{}, &CommandError{Input: line, Message: err.Error()}
	}
	cmd := Command{Kind: CmdBreakAdd, Source: source, Line: lineNum}
	if tail != "" {
		kw, cond := splitWord(tail)
		if kw != "if" || cond == "" {
			return Command{}, &CommandError{Input: line, Message: "expected \"if <condition>\" after location"}
		}
		cmd.Expr = cond
	}
	return cmd, nil
}

func parseWatch(line, rest string) (Command, error) {
	sub, args := splitWord(rest)
	switch strings.ToLower(sub) {
	case "", "list", "ls":
		return noArgs(CmdWatchList, line, args)
	case "delete", "del", "rm":
		if args == "" {
			return Command{}, &CommandError{Input: line, Message: "watch delete requires a watch number"}
		}
		return countArg(CmdWatchDelete, line, args, 0)
	case "add":
		rest = args
	}
	if rest == "" {
		return Command{}, &CommandError{Input: line, Message: "watch add requires an expression"}
	}
	return Command{Kind: CmdWatchAdd, Expr: rest}, nil
}

// parseLocation parses "source:line", a quoted source name followed by
// ":line", or a bare line number. It returns the remaining text.
func parseLocation(text string) (source string, line int, rest string, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0, "", fmt.Errorf("expected a location such as main:5")
	}
	var loc string
	if q := text[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(text[1:], q)
		if end < 0 {
			return "", 0, "", fmt.Errorf("unterminated source name in %q", text)
		}
		source = text[1 : end+1]
		loc, rest = splitWord(text[end+2:])
		if !strings.HasPrefix(loc, ":") {
			return "", 0, "", fmt.Errorf("expected \":line\" after source name in %q", text)
		}
		loc = loc[1:]
	} else {
		loc, rest = splitWord(text)
		if i := strings.LastIndexByte(loc, ':'); i >= 0 {
			source, loc = loc[:i], loc[i+1:]
		}
	}
	line, convErr := strconv.Atoi(loc)
	if convErr != nil || line < 1 {
		return "", 0, "", fmt.Errorf("invalid line number %q", loc)
	}
	return source, line, rest, nil
}

func noArgs(kind CommandKind, line, rest string) (Command, error) {
	if rest != "" {
		return Command{}, &CommandError{Input: line, Message: fmt.Sprintf("%s takes no arguments", kind)}
	}
	return Command{Kind: kind}, nil
}

func countArg(kind CommandKind, line, rest string, def int) (Command, error) {
	if rest == "" {
		return Command{Kind: kind, Count: def}, nil
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return Command{}, &CommandError{Input: line, Message: fmt.Sprintf("%s: invalid number %q", kind, rest)}
	}
	return Command{Kind: kind, Count: n}, nil
}

// splitWord returns the first whitespace separated word of s and the
// trimmed remainder.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

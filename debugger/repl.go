package debugger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/risor-io/risordbg/builtins"
	"github.com/risor-io/risordbg/object"
)

// output writes REPL text through a WriteFunc.
type output struct {
	write  WriteFunc
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	faint  *color.Color
}

func newOutput(write WriteFunc, enabled bool) *output {
	o := &output{
		write:  write,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{o.red, o.yellow, o.cyan, o.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return o
}

func (o *output) println(s string) {
	_ = o.write(s + "\n")
}

func (o *output) printf(format string, args ...any) {
	_ = o.write(fmt.Sprintf(format, args...))
}

// errorf writes a one line diagnostic.
func (o *output) errorf(format string, args ...any) {
	o.println(o.red.Sprint("error: " + firstLine(fmt.Sprintf(format, args...))))
}

func (s *Session) format(value object.Object) string {
	return s.cfg.formatOptions().Format(value)
}

// printPause writes the pause header, the current source line and the
// watch values.
func (s *Session) printPause(ctx context.Context, pc *pauseContext) {
	if pc.err != nil {
		s.out.errorf("%v", pc.err)
	}
	reason := pc.reason.String()
	if pc.breakpoint != nil {
		reason = fmt.Sprintf("breakpoint %d", pc.breakpoint.ID)
	}
	fr := pc.nav.Current()
	if fr == nil {
		s.out.println(s.out.yellow.Sprintf("paused (%s)", reason))
		return
	}
	s.out.println(s.out.yellow.Sprintf("paused at %s in %s (%s)", fr.Location(), fr.Function, reason))
	if text := s.vm.SourceLine(fr.Source, fr.Line); text != "" {
		s.out.println(s.out.faint.Sprintf("%4d | ", fr.Line) + text)
	}
	s.printWatches(ctx, fr)
}

func (s *Session) printWatches(ctx context.Context, fr *StackFrame) {
	for _, w := range s.Watches() {
		var (
			values []object.Object
			err    error
		)
		s.suppressed(func() {
			values, err = s.eval.EvalExprs(ctx, w.Expr, fr)
		})
		if err != nil {
			s.out.printf("watch %d: %s = <%s>\n", w.ID, w.Expr, firstLine(err.Error()))
			continue
		}
		s.out.printf("watch %d: %s = %s\n", w.ID, w.Expr, s.formatValues(values))
	}
}

func (s *Session) formatValues(values []object.Object) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = s.format(v)
	}
	return strings.Join(parts, ", ")
}

// execute runs a command that does not resume the program.
func (s *Session) execute(ctx context.Context, pc *pauseContext, cmd Command) error {
	nav := pc.nav
	switch cmd.Kind {
	case CmdPrint:
		return s.evaluating(pc, func() error {
			values, err := s.eval.EvalExprs(ctx, cmd.Expr, pc.selected())
			if err != nil {
				return err
			}
			s.out.println(s.formatValues(values))
			return nil
		})

	case CmdEval:
		return s.evaluating(pc, func() error {
			values, err := s.eval.Eval(ctx, cmd.Expr, pc.selected())
			if err != nil {
				return err
			}
			if len(values) == 1 && values[0] == object.Nil {
				return nil
			}
			s.out.println(s.formatValues(values))
			return nil
		})

	case CmdWhere:
		s.printWhere(nav)

	case CmdList:
		fr := pc.selected()
		if fr == nil {
			return fmt.Errorf("no frame to list")
		}
		around := cmd.Count
		if around == 0 {
			around = s.cfg.ListContext
		}
		return s.printList(fr, around)

	case CmdLocals:
		fr := pc.selected()
		if fr == nil {
			return fmt.Errorf("no frame selected")
		}
		s.printLocals(fr)

	case CmdUp, CmdDown, CmdFrame:
		var (
			fr  *StackFrame
			err error
		)
		switch cmd.Kind {
		case CmdUp:
			fr, err = nav.Up(cmd.Count)
		case CmdDown:
			fr, err = nav.Down(cmd.Count)
		default:
			fr, err = nav.Select(cmd.Count)
		}
		if err != nil {
			return err
		}
		s.printFrame(fr, true)

	case CmdBreakAdd:
		source := cmd.Source
		if source == "" {
			fr := pc.selected()
			if fr == nil {
				return fmt.Errorf("break: no current source, use source:line")
			}
			source = fr.Source
		}
		bp, err := s.breakpoints.Add(source, cmd.Line, cmd.Expr)
		if errors.Is(err, ErrDuplicateBreakpoint) {
			s.log.Info().Str("breakpoint", bp.String()).Msg("breakpoint updated")
			s.out.printf("breakpoint %d updated at %s\n", bp.ID, bp.Location())
			return nil
		}
		if err != nil {
			return err
		}
		s.log.Info().Str("breakpoint", bp.String()).Msg("breakpoint added")
		s.out.printf("breakpoint %d at %s\n", bp.ID, bp.Location())

	case CmdBreakDelete:
		source := cmd.Source
		if source == "" {
			if fr := pc.selected(); fr != nil {
				source = fr.Source
			}
		}
		if err := s.breakpoints.Remove(source, cmd.Line); err != nil {
			return err
		}
		s.log.Info().Str("source", source).Int("line", cmd.Line).Msg("breakpoint removed")
		s.out.printf("deleted breakpoint at %s:%d\n", source, cmd.Line)

	case CmdBreakList:
		if s.breakpoints.Len() == 0 {
			s.out.println("no breakpoints")
			return nil
		}
		for bp := range s.breakpoints.List() {
			s.out.println(bp.String())
		}

	case CmdWatchAdd:
		w := s.AddWatch(cmd.Expr)
		s.out.printf("watch %d: %s\n", w.ID, w.Expr)

	case CmdWatchDelete:
		if err := s.RemoveWatch(cmd.Count); err != nil {
			return err
		}
		s.out.printf("deleted watch %d\n", cmd.Count)

	case CmdWatchList:
		watches := s.Watches()
		if len(watches) == 0 {
			s.out.println("no watches")
			return nil
		}
		for _, w := range watches {
			s.out.printf("watch %d: %s\n", w.ID, w.Expr)
		}

	case CmdHelp:
		s.printHelp(cmd.Expr)

	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

func (s *Session) printFrame(fr *StackFrame, selected bool) {
	marker := "  "
	if selected {
		marker = "=>"
	}
	s.out.printf("%s #%d %s in %s\n", marker, fr.Level, fr.Location(), fr.Function)
}

func (s *Session) printWhere(nav *Navigator) {
	if nav.Len() == 0 {
		s.out.println("no frames")
		return
	}
	for i, fr := range nav.Frames() {
		s.printFrame(fr, i == nav.CurrentIndex())
	}
}

func (s *Session) printList(fr *StackFrame, around int) error {
	lines, ok := s.vm.SourceLines(fr.Source)
	if !ok {
		return fmt.Errorf("no source available for %s", fr.Source)
	}
	first := max(fr.Line-around, 1)
	last := min(fr.Line+around, len(lines))
	for n := first; n <= last; n++ {
		marker := "  "
		if n == fr.Line {
			marker = "=>"
		}
		s.out.printf("%s %s%s\n", marker, s.out.faint.Sprintf("%4d | ", n), lines[n-1])
	}
	return nil
}

func (s *Session) printLocals(fr *StackFrame) {
	if len(fr.Locals) == 0 && len(fr.Upvalues) == 0 && len(fr.Varargs) == 0 {
		s.out.println("no locals")
		return
	}
	for _, b := range fr.Locals {
		s.out.printf("%s = %s\n", s.out.cyan.Sprint(b.Name), s.format(b.Value))
	}
	if len(fr.Upvalues) > 0 {
		s.out.println("upvalues:")
		for _, b := range fr.Upvalues {
			s.out.printf("  %s = %s\n", s.out.cyan.Sprint(b.Name), s.format(b.Value))
		}
	}
	if len(fr.Varargs) > 0 {
		s.out.printf("varargs: %s\n", s.format(object.NewList(fr.Varargs)))
	}
}

const helpText = `commands:
  step, s                     run to the next line, entering calls
  next, n                     run to the next line in this function
  finish, f                   run until this function returns
  continue, c                 run until a breakpoint or error
  print, p <expr>[, <expr>]   evaluate expressions in the selected frame
  eval, e <statements>        run statements in the selected frame
  where, w, bt                show the call stack
  list, l [n]                 show source around the current line
  locals                      show the variables of the selected frame
  up, u [n]                   select an outer frame
  down, d [n]                 select an inner frame
  frame <n>                   select frame n
  break [add] <src>:<line> [if <cond>]
  break delete <src>:<line>
  break list
  watch [add] <expr>
  watch delete <n>
  watch list
  quit, q                     stop the program
  help, h [builtins|globals|<name>]
                              show help
an empty line repeats the last command`

func (s *Session) printHelp(topic string) {
	switch topic {
	case "":
		s.out.println(helpText)
		return
	case "builtins":
		for _, doc := range builtins.Docs() {
			s.out.printf("  %-8s %s\n", doc.Name, doc.Doc)
		}
		return
	case "globals":
		s.out.println(strings.Join(s.vm.GlobalNames(), ", "))
		return
	}
	for _, doc := range builtins.Docs() {
		if doc.Name == topic {
			s.out.printf("%s(%s) -> %s\n  %s\n  example: %s\n",
				doc.Name, strings.Join(doc.Args, ", "), doc.Returns, doc.Doc, doc.Example)
			return
		}
	}
	s.out.errorf("no help for %q", topic)
}

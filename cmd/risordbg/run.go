package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/risordbg"
	"github.com/risor-io/risordbg/debugger"
	"github.com/risor-io/risordbg/vm"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script under the debugger",
		Example: `  risordbg run script.rsr
  risordbg run --break 12 --break "lib.rsr:4 if n > 2" script.rsr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringArrayP("break", "b", nil, `set a breakpoint as "[file:]line [if condition]" (repeatable)`)
	flags.Int("max-depth", 0, "nesting depth shown when printing values")
	flags.Int("max-items", 0, "items shown per list or map when printing values")
	flags.Int("max-string-len", 0, "truncate printed strings longer than this (-1 for no limit)")
	flags.Int("list-context", 0, "lines shown around the current line by list")
	flags.Bool("break-on-eval-error", false, "pause when code entered at the prompt raises an error")
	flags.String("prompt", "", "debugger prompt")
	flags.StringP("output", "o", "", "result output format (json, text)")
	flags.Bool("timing", false, "show execution time")
	for _, name := range []string{"max-depth", "max-items", "max-string-len", "list-context", "break-on-eval-error", "prompt", "timing"} {
		v.BindPFlag(name, flags.Lookup(name))
	}
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func runScript(cmd *cobra.Command, v *viper.Viper, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"), v.GetBool("no-color"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := []risordbg.Option{
		risordbg.WithFilename(path),
		risordbg.WithRead(debugger.NewReader(cmd.InOrStdin(), out)),
		risordbg.WithWrite(debugger.NewWriter(out)),
		risordbg.WithVMOptions(vm.WithStdout(out)),
		risordbg.WithSessionOptions(
			debugger.WithConfig(debuggerConfig(v, isTerminalIO())),
			debugger.WithLogger(logger),
		),
	}

	// Breakpoints from the config file come first so that flags given on
	// the command line can update their conditions.
	specs := v.GetStringSlice("breakpoints")
	flagSpecs, _ := cmd.Flags().GetStringArray("break")
	specs = append(specs, flagSpecs...)
	for _, spec := range specs {
		bp, err := parseBreakpoint(spec, path)
		if err != nil {
			return err
		}
		opts = append(opts, risordbg.WithBreakpoint(bp.Source, bp.Line, bp.Expr))
	}

	logger.Info().Str("file", path).Int("breakpoints", len(specs)).Msg("running script")
	start := time.Now()
	result, err := risordbg.Run(cmd.Context(), string(code), opts...)
	if err != nil {
		return formatRunError(err)
	}
	dt := time.Since(start)

	format, _ := cmd.Flags().GetString("output")
	output, err := getOutput(result, format, v.GetBool("no-color"))
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(out, output)
	}
	if v.GetBool("timing") {
		fmt.Fprintf(out, "%v\n", dt)
	}
	return nil
}

// parseBreakpoint reads a --break value with the grammar of the break
// command. A bare line number refers to the script being run.
func parseBreakpoint(spec, script string) (debugger.Command, error) {
	cmd, err := debugger.ParseCommand("break add " + strings.TrimSpace(spec))
	if err != nil {
		return debugger.Command{}, fmt.Errorf("invalid breakpoint %q: %w", spec, err)
	}
	if cmd.Source == "" {
		cmd.Source = script
	}
	return cmd, nil
}

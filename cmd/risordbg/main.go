package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/risordbg/debugger"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "risordbg",
		Short: "Run Risor scripts under an interactive debugger",
		Long: `Run Risor scripts under an interactive debugger.

Scripts pause at breakpoints, when they call dbg() or debugger.pause(), and
when they raise an error that is not caught. Type "help" at the prompt for
the list of commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			processGlobalFlags(v)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.risordbg.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	v.BindPFlags(flags)

	cmd.AddCommand(newRunCmd(v), newVersionCmd(v))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if errors.Is(err, debugger.ErrQuit) {
			os.Exit(130)
		}
		fatal(err)
	}
}

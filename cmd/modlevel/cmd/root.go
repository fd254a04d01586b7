package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/logging"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// cliModule names the module of the CLI's own diagnostics
const cliModule = "cli"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "modlevel",
	Short: "modlevel - per-module log level filtering",
	Long: `modlevel filters structured log streams by module.

Each record is kept or dropped by comparing its level with the threshold of
the module named in its context, falling back to a default level for
records without a configured module.

Configuration strings are comma-separated MODULE=LEVEL pairs:

  db=debug,http=error,cache=trace

Commands:
  parse    - show how a configuration string is understood
  filter   - filter JSON log lines from a file or stdin
  version  - show version information`,
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// newCLILogger returns the logger for diagnostics of the CLI itself. It
// runs through a module filter like any other logger: the cli module logs
// at info, or debug with verbose; everything else at warning.
func newCLILogger(errOut io.Writer, verbose bool) *log.Logger {
	level := log.LevelInfo
	if verbose {
		level = log.LevelDebug
	}

	return logging.NewLogger(logging.LoggerConfig{
		Level:   log.LevelWarning.String(),
		VModule: modlevel.ModLevelMap{cliModule: level}.String(),
		Format:  log.FormatConsole.String(),
		Output:  errOut,
	}).WithModule(cliModule)
}

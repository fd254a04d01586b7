package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msto63/modlevel/internal/ingest"
	"github.com/msto63/modlevel/pkg/core/config"
	mdwerror "github.com/msto63/modlevel/pkg/core/error"
	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// filterOptions holds the filter command's flags. Empty strings leave the
// settings from file and environment untouched.
type filterOptions struct {
	configFile  string
	vmodule     string
	level       string
	moduleKey   string
	format      string
	input       string
	compression string
	runID       bool
	watch       bool
	verbose     bool
}

var filterOpts filterOptions

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filters JSON log lines by module level",
	Long: `Reads JSON log lines, drops every record below the level of its module
and writes the rest to stdout. Statistics go to stderr.

Settings are taken from --config (TOML or YAML), then MODLEVEL_*
environment variables, then flags. The input may be gzip or zstd
compressed.

Examples:
  modlevel filter --vmodule "db=debug" --level warning --input app.log
  zstdcat app.log.zst | modlevel filter --config filter.toml --format console
  tail -f app.log | modlevel filter --config filter.toml --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := filterOpts
		opts.configFile = cfgFile
		opts.verbose = verbose
		return runFilter(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterOpts.vmodule, "vmodule", "", "Module levels, e.g. db=debug,http=error")
	filterCmd.Flags().StringVar(&filterOpts.level, "level", "", "Default level for other modules")
	filterCmd.Flags().StringVar(&filterOpts.moduleKey, "module-key", "", "Context key naming the module")
	filterCmd.Flags().StringVar(&filterOpts.format, "format", "", "Output format (json, text, console, logfmt)")
	filterCmd.Flags().StringVarP(&filterOpts.input, "input", "i", "-", "Input file, - for stdin")
	filterCmd.Flags().StringVar(&filterOpts.compression, "compression", "auto", "Input compression (auto, none, gzip, zstd)")
	filterCmd.Flags().BoolVar(&filterOpts.runID, "run-id", false, "Add a run_id to every record")
	filterCmd.Flags().BoolVar(&filterOpts.watch, "watch", false, "Reload the settings file when it changes")
}

func (o filterOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{Format: config.FormatAuto, EnvPrefix: config.DefaultEnvPrefix}
}

// settings loads the file or the environment and applies the flags
func (o filterOptions) settings() (*config.Settings, error) {
	var settings *config.Settings
	var err error
	if o.configFile != "" {
		settings, err = config.LoadWithOptions(o.configFile, o.loadOptions())
	} else {
		settings, err = config.FromEnv(config.DefaultEnvPrefix)
	}
	if err != nil {
		return nil, err
	}
	o.apply(settings)
	return settings, nil
}

func (o filterOptions) apply(settings *config.Settings) {
	if o.vmodule != "" {
		settings.VModule = o.vmodule
	}
	if o.level != "" {
		settings.DefaultLevel = o.level
	}
	if o.moduleKey != "" {
		settings.ModuleKey = o.moduleKey
	}
	if o.format != "" {
		settings.Format = o.format
	}
}

func buildFilter(resolved *config.Resolved, out io.Writer) *modlevel.Filter[int] {
	drain := log.NewWriterDrain(out, log.GetFormatter(resolved.Format))
	return modlevel.New[int](drain, resolved.ModuleKey, resolved.DefaultLevel, resolved.Modules)
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		code := mdwerror.CodeIOError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "failed to open input").
			WithCode(code).
			WithOperation("filter.openInput").
			WithDetail("path", path)
	}
	return f, nil
}

func runFilter(ctx context.Context, opts filterOptions, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	logger := newCLILogger(stderr, opts.verbose)

	compression, err := ingest.ParseCompression(opts.compression)
	if err != nil {
		return err
	}
	if opts.watch && opts.configFile == "" {
		return mdwerror.New("--watch requires --config").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("filter.run")
	}

	settings, err := opts.settings()
	if err != nil {
		return err
	}
	resolved, err := settings.Resolve()
	if err != nil {
		return err
	}

	in, err := openInput(opts.input, stdin)
	if err != nil {
		return err
	}
	defer in.Close()

	out := bufio.NewWriter(stdout)
	defer func() {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = mdwerror.Wrap(ferr, "failed to write output").
				WithCode(mdwerror.CodeIOError).
				WithOperation("filter.run")
		}
	}()

	var current atomic.Pointer[modlevel.Filter[int]]
	current.Store(buildFilter(resolved, out))
	logger.Debug("filter ready",
		log.String("default_level", resolved.DefaultLevel.String()),
		log.String("module_key", resolved.ModuleKey),
		log.String("modules", resolved.Modules.String()))

	if opts.watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		err := config.Watch(watchCtx, opts.configFile, opts.loadOptions(), func(s *config.Settings, err error) {
			if err != nil {
				logger.Warn("settings reload failed", log.Err(err))
				return
			}
			opts.apply(s)
			r, err := s.Resolve()
			if err != nil {
				logger.Warn("settings reload rejected", log.Err(err))
				return
			}
			current.Store(buildFilter(r, out))
			logger.Info("settings reloaded", log.String("modules", r.Modules.String()))
		})
		if err != nil {
			return err
		}
		logger.Debug("watching settings", log.String("path", opts.configFile))
	}

	var root *log.Values
	if opts.runID {
		id := uuid.NewString()
		root = log.NewValues(nil, log.String("run_id", id))
		logger.Debug("run started", log.String("run_id", id))
	}

	drain := log.DrainFunc[modlevel.Result[int]](func(rec *log.Record, values *log.Values) (modlevel.Result[int], error) {
		return current.Load().Log(rec, values)
	})

	stats, err := ingest.Run[int](ctx, in, drain, ingest.Options{
		Compression: compression,
		Root:        root,
	})

	logger.Info("filter finished",
		log.Int("read", stats.Read),
		log.Int("forwarded", stats.Forwarded),
		log.Int("dropped", stats.Dropped),
		log.Int("malformed", stats.Malformed))

	return err
}

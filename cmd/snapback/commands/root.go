// Package commands implements the CLI commands for snapback.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/snapback/cmd"
	"github.com/thoreinstein/snapback/internal/config"
	"github.com/thoreinstein/snapback/internal/errors"
	"github.com/thoreinstein/snapback/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg holds the configuration loaded at startup. It stays nil when
// loading failed; commands that need it are stopped by checkConfig.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is <config-dir>/snapback/config.yaml)")

	// Add version flag
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("snapback version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	// Flag parse failures are usage errors
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.NewExitError(err, errors.ExitUsage)
	})
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "snapback [SOURCE] DEST",
	Short: "Incremental snapshot backups with rsync",
	Long: `snapback makes an incremental backup of a directory tree to a
destination directory. The destination is filled with a sequence of
snapshot folders that maintains an incremental history of all backups
made: each run hard-links unchanged files against the previous one, so
a full tree costs only the space of what changed since the last run.

With a single argument the whole filesystem is backed up from / with
the standard system exclusions: volatile trees such as /proc, /sys and
/tmp are skipped and foreign mounts are not crossed. With two
arguments, SOURCE is backed up as-is.

After a successful backup, snapshots older than the retention
threshold are pruned. The destination is locked for the duration of
the run so concurrent invocations cannot corrupt the history.`,
	Example: `  # Back up the whole system
  snapback /mnt/backups

  # Back up one directory, keeping 12 weeks of history
  snapback --keep-for 12w /home/jim /mnt/backups

  # See what a prune would remove
  snapback prune --dry-run /mnt/backups`,
	Args: usageArgs(cobra.RangeArgs(1, 2)),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	RunE: runBackup,
}

// usageArgs wraps a positional-argument validator so violations exit
// with the usage code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.NewExitError(err, errors.ExitUsage)
		}
		return nil
	}
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewExitError(
			errors.New("cannot use --quiet and --verbose together"),
			errors.ExitUsage)
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SNAPBACK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		// Then the configured default
		if v == 0 && cfg != nil {
			v = cfg.Verbosity
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces a config load failure before a command that
// needs the configuration runs.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "init", "completion",
		cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command. Interrupts cancel the command
// context, which kills a running engine subprocess; the deferred lock
// release then runs on the way out.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

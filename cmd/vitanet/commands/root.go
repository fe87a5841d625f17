// Package commands implements the CLI commands for vitanet.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd"
	"github.com/vitanet/vitanet/cmd/vitanet/commands/bundle"
	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/config"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given.
const debugEnv = config.EnvPrefix + "_DEBUG"

// dbPath holds the value of the --db-path flag.
var dbPath string

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedConfig is the configuration read by initConfig.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "",
		"store to operate on (default: store_path from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml, then the user config dir)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"log format: text, json (default: log_format from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("vitanet version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(bundle.Cmd)
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "vitanet",
	Short: "Snapshot and restore the vitanet store",
	Long: `vitanet packages the local store into a single portable bundle file
and restores a store from such a bundle.

A bundle carries descriptive metadata, a byte-for-byte copy of the store
and a SQL dump of it. Restoring over an existing store requires --force
and always keeps a timestamped backup of the store being replaced.`,
	Example: `  # Snapshot the store into the bundle directory
  vitanet bundle create

  # Inspect a bundle
  vitanet bundle info ./nightly.vitanet

  # Replace the store with a bundle's contents
  vitanet bundle restore ./nightly.vitanet --force

  # Work on a store other than the configured one
  vitanet --db-path /srv/vitanet/vitanet.db status

  See Also: vitanet config, vitanet status`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return resolveSettings(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("--quiet and --verbose are mutually exclusive"),
			"Use either -q or -v")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch effectiveLogFormat() {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "Check the --log-file path")
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

// effectiveLogFormat prefers the flag over the configured format.
func effectiveLogFormat() logging.Format {
	if logFormat != "" {
		return logging.Format(logFormat)
	}
	if loadedConfig != nil && loadedConfig.LogFormat != "" {
		return logging.Format(loadedConfig.LogFormat)
	}
	return logging.FormatText
}

// resolveSettings publishes the store path, bundle directory and producer
// version for subcommands.
func resolveSettings(cmd *cobra.Command) error {
	if configLoadErr != nil {
		// these must keep working with a broken config
		switch cmd.Name() {
		case "help", "version", "init":
			return nil
		}
		return errors.NewConfigError(configLoadErr)
	}

	cfg := loadedConfig
	if cfg == nil {
		cfg = config.Default()
	}

	s := flags.Settings{
		StorePath:       cfg.StorePath,
		BundleDir:       cfg.BundleDir,
		ProducerVersion: cfg.ProducerVersion,
	}
	if dbPath != "" {
		s.StorePath = dbPath
	}
	if s.ProducerVersion == "" {
		s.ProducerVersion = cmd.Root().Version
	}
	flags.SetSettings(s)

	logging.FromContext(cmd.Context()).Debug("settings resolved",
		"store", s.StorePath, "bundle_dir", s.BundleDir, "config", config.FileUsed())
	return nil
}

// printError reports err and its suggestion, if any.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err.Error())

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
}

// Execute runs the root command and reports any error on stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

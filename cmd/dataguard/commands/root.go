// Package commands implements the CLI commands for dataguard.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AmanDhiman07/dataguard/internal/config"
	dgerrors "github.com/AmanDhiman07/dataguard/internal/errors"
	"github.com/AmanDhiman07/dataguard/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfgFile holds the value of the --config flag.
var cfgFile string

// loadedConfig is the configuration resolved during startup.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/dataguard/config.yaml)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("dataguard version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(cfgFile)
	if configLoadErr == nil {
		configLoadErr = config.Validate(loadedConfig)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dataguard",
	Short: "Back up and restore contacts, messages, and call logs",
	Long: `dataguard backs up personal device data to timestamped local
snapshots and mirrors each backup into a user-visible export folder.

Each snapshot covers one record domain (contacts, messages, or call
logs) and carries a manifest describing what it holds. Restores write
records back through the device providers with duplicate detection for
contacts and role gating for messages and call logs.

An optional cloud account can receive exported contact files; sign in
with 'dataguard login' and push snapshots with 'dataguard upload'.`,
	Example: `  # Initialize configuration
  dataguard init

  # Back up contacts
  dataguard backup create contacts

  # List snapshots
  dataguard backup list

  # Restore the latest contacts snapshot
  dataguard restore contacts

  See Also: dataguard init, dataguard status`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			return dgerrors.NewUserError(configLoadErr, "Check the config file or run 'dataguard init'")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return dgerrors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("DATAGUARD_DEBUG"); ok {
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
			return dgerrors.NewUserError(err, "failed to open log file")
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

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return dgerrors.ExitSuccess
	}

	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)

	code := dgerrors.ExitUser
	suggestion := dgerrors.Suggest(err)
	var exitErr *dgerrors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			suggestion = exitErr.Suggestion
		}
	}
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", suggestion)
	}
	return code
}

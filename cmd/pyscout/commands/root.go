// Package commands implements the CLI commands for pyscout.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/pyscout/internal/config"
	"github.com/thoreinstein/pyscout/internal/errors"
	"github.com/thoreinstein/pyscout/internal/logging"
	"github.com/thoreinstein/pyscout/internal/paths"
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

// cfg is the loaded configuration, populated by initConfig.
var cfg *config.Config

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
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to config file (default: ~/.config/pyscout/config.yaml)")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
	if cfg == nil {
		cfg = config.Default()
	}
}

// discoveryEnv builds the environment view scans run against: the
// process environment plus the configured manager hints.
func discoveryEnv() paths.Env {
	env := paths.OSEnv()
	env.CondaExecutable = cfg.CondaExecutable
	env.PoetryExecutable = cfg.PoetryExecutable
	return env
}

var rootCmd = &cobra.Command{
	Use:   "pyscout",
	Short: "Discover and identify Python environments",
	Long: `pyscout locates Python interpreters and environments on this machine:
global installs, pyenv versions, conda and pixi environments, poetry,
pipenv, uv and plain virtual environments.

Each environment is reported once with everything pyscout could learn
cheaply from the filesystem. Running the interpreter itself is a last
resort, bounded by a timeout.

Run it one-shot with 'pyscout find', or as a long-lived JSON-RPC server
with 'pyscout server' for editor integrations.`,
	Example: `  # Discover everything
  pyscout find

  # Discover a workspace, machine-readable
  pyscout find ~/src/myproject --json

  # Resolve one interpreter
  pyscout resolve /usr/bin/python3

  # Check system health
  pyscout doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if configLoadErr != nil {
			if errors.Is(configLoadErr, errors.ErrInvalidConfig) {
				return errors.NewUserError(configLoadErr, "fix the reported field in the config file")
			}
			return errors.NewUserError(configLoadErr, "fix the config file or pass --config")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("PYSCOUT_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.ParseFormat(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
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
		return errors.ExitSuccess
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "pyscout: %s\n", exitErr.Error())
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", exitErr.Suggestion)
		}
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "pyscout: %s\n", err)
	return errors.ExitUser
}

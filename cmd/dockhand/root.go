package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/dockhand/internal/adapters/logging"
	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dockhand",
	Short: "Install and watch over a containerized service stack",
	Long: `Dockhand provisions a Docker host, installs a versioned compose bundle
and keeps an eye on the resulting stack.

A failed install is unwound automatically: every step that completed is
rolled back in reverse order before dockhand exits.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// newRunLogger opens the per-run log file and returns a logger teeing
// console and file, tagged with a fresh run id. The caller closes it.
func newRunLogger(logDir, command string) (*logging.RunLog, ports.Logger, error) {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	console := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(level),
	)

	runLog, err := logging.NewRunLog(logDir, command, console, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("setting up run log: %w", err)
	}

	logger := runLog.With(ports.F("run_id", uuid.NewString()))
	return runLog, logger, nil
}

// resolveLogDir prefers the flag, then the manifest, then the default.
// Manifest load errors are left for the command itself to surface.
func resolveLogDir(flagValue, configPath string) string {
	if flagValue != "" {
		return flagValue
	}
	manifest, err := config.NewLoader().Load(configPath)
	if err != nil {
		return config.DefaultLogDir
	}
	return manifest.LogDir
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

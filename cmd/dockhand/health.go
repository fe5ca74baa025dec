package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/dockhand/internal/app"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report the health of the installed stack",
	Long: `Health checks every service in the manifest's registry against the
container runtime and prints a per-service classification plus an
aggregate verdict.

The exit status is non-zero when any service is missing, stopped or
failing its health probe.`,
	RunE: runHealth,
}

var (
	healthConfigPath string
	healthLogDir     string
	healthTailLines  int
)

// ErrUnhealthy signals a failed health verdict to main.
var ErrUnhealthy = errors.New("stack unhealthy")

type dockhandChecker interface {
	Health(ctx context.Context, configPath string, tailLines int) (health.Report, error)
	PrintHealthReport(report health.Report)
}

var newChecker = func(out io.Writer, logger ports.Logger) dockhandChecker {
	return app.New(out).WithLogger(logger)
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().StringVarP(&healthConfigPath, "config", "c", "dockhand.yaml", "Path to dockhand.yaml")
	healthCmd.Flags().StringVar(&healthLogDir, "log-dir", "", "Directory for per-run log files (default: from manifest)")
	healthCmd.Flags().IntVar(&healthTailLines, "tail", 20, "Log lines to collect per failing service")
}

func runHealth(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	logDir := resolveLogDir(healthLogDir, healthConfigPath)
	runLog, logger, err := newRunLogger(logDir, "health")
	if err != nil {
		printError(err)
		return err
	}
	defer runLog.Close()

	dockhand := newChecker(os.Stdout, logger)
	report, err := dockhand.Health(ctx, healthConfigPath, healthTailLines)
	if err != nil {
		printError(err)
		return err
	}

	dockhand.PrintHealthReport(report)

	if !report.Healthy() {
		return ErrUnhealthy
	}
	return nil
}

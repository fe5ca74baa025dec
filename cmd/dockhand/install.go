package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/dockhand/internal/app"
	"github.com/felixgeelhaar/dockhand/internal/domain/execution"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision the host and install the service stack",
	Long: `Install runs the full provisioning sequence:

1. Base tooling (curl, jq, tar)
2. Docker engine and compose plugin
3. Kernel parameter tuning
4. Bundle download, verification and extraction
5. Bundle configuration (env overrides, published ports)
6. Stack start and closing health check

Steps already satisfied are skipped. If a step fails, every step that
completed before it is rolled back in reverse order.`,
	RunE: runInstall,
}

var (
	installConfigPath string
	installLogDir     string
	installSkipHealth bool
)

// ErrInstallFailed signals a failed (and unwound) run to main.
var ErrInstallFailed = errors.New("install failed")

type dockhandInstaller interface {
	Install(ctx context.Context, configPath string, skipHealth bool) (execution.RunReport, error)
	PrintRunReport(report execution.RunReport)
}

var newInstaller = func(out io.Writer, logger ports.Logger) dockhandInstaller {
	return app.New(out).WithLogger(logger)
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVarP(&installConfigPath, "config", "c", "dockhand.yaml", "Path to dockhand.yaml")
	installCmd.Flags().StringVar(&installLogDir, "log-dir", "", "Directory for per-run log files (default: from manifest)")
	installCmd.Flags().BoolVar(&installSkipHealth, "skip-health", false, "Skip the closing health check")
}

func runInstall(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	logDir := resolveLogDir(installLogDir, installConfigPath)
	runLog, logger, err := newRunLogger(logDir, "install")
	if err != nil {
		printError(err)
		return err
	}
	defer runLog.Close()

	logger.Info(ctx, "starting install", ports.F("config", installConfigPath))

	dockhand := newInstaller(os.Stdout, logger)
	report, err := dockhand.Install(ctx, installConfigPath, installSkipHealth)
	if err != nil {
		printError(err)
		return err
	}

	dockhand.PrintRunReport(report)
	fmt.Fprintf(os.Stdout, "Run log: %s\n", runLog.Path())

	if report.Failed() {
		return ErrInstallFailed
	}
	return nil
}

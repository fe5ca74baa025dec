// Package app provides the main application logic for dockhand.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/felixgeelhaar/dockhand/internal/adapters/command"
	"github.com/felixgeelhaar/dockhand/internal/adapters/dockercli"
	"github.com/felixgeelhaar/dockhand/internal/adapters/download"
	"github.com/felixgeelhaar/dockhand/internal/adapters/logging"
	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/domain/execution"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/ports"
	"github.com/felixgeelhaar/dockhand/internal/provider/bundle"
	"github.com/felixgeelhaar/dockhand/internal/provider/docker"
	"github.com/felixgeelhaar/dockhand/internal/provider/kernel"
	"github.com/felixgeelhaar/dockhand/internal/provider/stack"
	"github.com/felixgeelhaar/dockhand/internal/provider/tools"
	"github.com/felixgeelhaar/dockhand/internal/tui"
)

// Dockhand is the main application orchestrator.
type Dockhand struct {
	runner     ports.CommandRunner
	runtime    ports.ContainerRuntime
	downloader ports.Downloader
	logger     ports.Logger
	out        io.Writer
}

// New creates a new Dockhand application with real adapters.
func New(out io.Writer) *Dockhand {
	runner := command.NewRealRunner()
	return &Dockhand{
		runner:     runner,
		runtime:    dockercli.NewRuntime(runner),
		downloader: download.NewHTTPDownloader(),
		logger:     logging.NewNopLogger(),
		out:        out,
	}
}

// WithLogger sets the logger used by the sequencer and steps.
func (d *Dockhand) WithLogger(logger ports.Logger) *Dockhand {
	d.logger = logger
	return d
}

// WithRunner sets the command runner.
func (d *Dockhand) WithRunner(runner ports.CommandRunner) *Dockhand {
	d.runner = runner
	return d
}

// WithRuntime sets the container runtime.
func (d *Dockhand) WithRuntime(runtime ports.ContainerRuntime) *Dockhand {
	d.runtime = runtime
	return d
}

// WithDownloader sets the artifact downloader.
func (d *Dockhand) WithDownloader(dl ports.Downloader) *Dockhand {
	d.downloader = dl
	return d
}

// Install loads the manifest, builds the ordered plan and runs it. A failed
// run is unwound before the report is returned; the caller decides the exit
// status from it.
func (d *Dockhand) Install(ctx context.Context, configPath string, skipHealth bool) (execution.RunReport, error) {
	manifest, err := d.loadManifest(configPath)
	if err != nil {
		return execution.RunReport{}, err
	}

	plan := d.buildPlan(manifest, skipHealth)
	sequencer := execution.NewSequencer(d.logger)
	return sequencer.Run(ctx, plan), nil
}

// Health loads the manifest and runs one health pass over its service
// registry.
func (d *Dockhand) Health(ctx context.Context, configPath string, tailLines int) (health.Report, error) {
	manifest, err := d.loadManifest(configPath)
	if err != nil {
		return health.Report{}, err
	}

	reporter := health.NewReporter(d.runtime, d.logger).WithLogLines(tailLines)
	return reporter.Report(ctx, manifest.Services), nil
}

// buildPlan assembles the fixed step sequence from the manifest.
func (d *Dockhand) buildPlan(manifest *config.Manifest, skipHealth bool) *execution.Plan {
	plan := execution.NewPlan()
	plan.Add(tools.NewInstallStep(d.runner))
	plan.Add(docker.NewEngineStep(d.runner))
	plan.Add(docker.NewComposeStep(d.runner))
	plan.Add(kernel.NewSysctlStep(manifest.Kernel.Parameters, d.runner))
	plan.Add(bundle.NewFetchStep(manifest.Bundle, manifest.InstallDir, d.downloader, d.runner))
	plan.Add(bundle.NewConfigStep(manifest.InstallDir, manifest.Env, manifest.Services))
	plan.Add(stack.NewUpStep(manifest.InstallDir, manifest.Services, d.runner))

	if !skipHealth {
		reporter := health.NewReporter(d.runtime, d.logger)
		plan.Add(stack.NewHealthStep(manifest.InstallDir, manifest.Services, reporter, d.logger, d.runner))
	}

	return plan
}

// loadManifest loads and validates the manifest from the given path.
func (d *Dockhand) loadManifest(configPath string) (*config.Manifest, error) {
	manifest, err := config.NewLoader().Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return manifest, nil
}

// PrintRunReport outputs a human-readable run summary.
func (d *Dockhand) PrintRunReport(report execution.RunReport) {
	fmt.Fprint(d.out, tui.FormatRunReport(report))

	if failed := report.FailedStep(); failed != nil {
		fmt.Fprintf(d.out, "\nInstall failed at %s: %v\n", failed.StepID().String(), failed.Error())
		if report.Unwound {
			fmt.Fprintf(d.out, "Completed steps were rolled back.\n")
		}
		return
	}

	fmt.Fprintf(d.out, "\nInstall complete: %d step(s) applied.\n", len(report.Completed()))
}

// PrintHealthReport outputs a human-readable health summary.
func (d *Dockhand) PrintHealthReport(report health.Report) {
	fmt.Fprint(d.out, tui.FormatHealthReport(report))
}

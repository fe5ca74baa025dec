package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/dockhand/internal/domain/execution"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
	"github.com/felixgeelhaar/dockhand/internal/testutil"
)

func writeManifest(t *testing.T, dir, installDir string) string {
	t.Helper()
	manifest := fmt.Sprintf(`bundle:
  version: v1.6.0
  url: https://releases.example.com/stack-v1.6.0.tar.gz
install_dir: %s
env:
  APP_MODE: production
services:
  - name: api
    port: 8080
  - name: db
    port: 5432
`, installDir)

	path := filepath.Join(dir, "dockhand.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

// seedBundle lays out an already extracted bundle so the fetch step is
// satisfied and the config step has a descriptor to patch.
func seedBundle(t *testing.T, installDir string) {
	t.Helper()
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		t.Fatalf("creating install dir: %v", err)
	}
	marker := filepath.Join(installDir, ".dockhand-version")
	if err := os.WriteFile(marker, []byte("v1.6.0\n"), 0o644); err != nil {
		t.Fatalf("writing version marker: %v", err)
	}
	compose := `services:
  api:
    image: example/api:1.6.0
  db:
    image: postgres:16
`
	composePath := filepath.Join(installDir, "docker-compose.yml")
	if err := os.WriteFile(composePath, []byte(compose), 0o644); err != nil {
		t.Fatalf("writing compose file: %v", err)
	}
}

func TestInstallHappyPath(t *testing.T) {
	dir := t.TempDir()
	installDir := filepath.Join(dir, "stack")
	seedBundle(t, installDir)
	configPath := writeManifest(t, dir, installDir)

	runner := testutil.NewFakeRunner().
		Script("docker --version", ports.CommandResult{ExitCode: 0, Stdout: "Docker version 27.1.1"})
	runtime := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "api", Running: true, Probe: ports.ProbeHealthy}).
		AddContainer(ports.Container{Name: "db", Running: true, Probe: ports.ProbeNone})

	var out bytes.Buffer
	dh := New(&out).WithRunner(runner).WithRuntime(runtime)

	report, err := dh.Install(context.Background(), configPath, false)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if report.Failed() {
		t.Fatalf("expected successful run, failed step: %+v", report.FailedStep())
	}
	if report.Unwound {
		t.Error("successful run should not unwind")
	}
	if got := len(report.Completed()); got != 8 {
		t.Errorf("expected 8 completed steps, got %d", got)
	}

	if !runner.CalledWith("docker compose up -d") {
		t.Error("expected stack to be started")
	}

	envData, err := os.ReadFile(filepath.Join(installDir, ".env"))
	if err != nil {
		t.Fatalf("reading patched env file: %v", err)
	}
	if !strings.Contains(string(envData), "APP_MODE") {
		t.Errorf("env file not patched: %q", envData)
	}
}

func TestInstallSkipHealth(t *testing.T) {
	dir := t.TempDir()
	installDir := filepath.Join(dir, "stack")
	seedBundle(t, installDir)
	configPath := writeManifest(t, dir, installDir)

	runner := testutil.NewFakeRunner().
		Script("docker --version", ports.CommandResult{ExitCode: 0, Stdout: "Docker version 27.1.1"})

	var out bytes.Buffer
	dh := New(&out).WithRunner(runner)

	report, err := dh.Install(context.Background(), configPath, true)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if got := len(report.Completed()); got != 7 {
		t.Errorf("expected 7 completed steps without health pass, got %d", got)
	}
	for _, id := range report.Completed() {
		if id == step.StackHealth {
			t.Error("health step should not run when skipped")
		}
	}
}

type failingDownloader struct{}

func (failingDownloader) Fetch(context.Context, string, string) error {
	return errors.New("connection refused")
}

func TestInstallFailureUnwindsCompletedSteps(t *testing.T) {
	dir := t.TempDir()
	installDir := filepath.Join(dir, "stack")
	configPath := writeManifest(t, dir, installDir)

	runner := testutil.NewFakeRunner().
		Script("docker --version", ports.CommandResult{ExitCode: 0, Stdout: "Docker version 27.1.1"})

	var out bytes.Buffer
	dh := New(&out).WithRunner(runner).WithDownloader(failingDownloader{})

	report, err := dh.Install(context.Background(), configPath, false)
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}
	if !report.Failed() {
		t.Fatal("expected run to fail at bundle fetch")
	}
	if report.FailedStep().StepID() != step.BundleFetch {
		t.Errorf("expected failure at %s, got %s", step.BundleFetch, report.FailedStep().StepID())
	}
	if !report.Unwound {
		t.Fatal("failed run should unwind")
	}

	wantOrder := []step.ID{step.KernelTuning, step.DockerCompose, step.DockerEngine, step.ToolsInstall}
	if len(report.UnwindResults) != len(wantOrder) {
		t.Fatalf("expected %d unwind results, got %d", len(wantOrder), len(report.UnwindResults))
	}
	for i, want := range wantOrder {
		if report.UnwindResults[i].StepID != want {
			t.Errorf("unwind position %d: expected %s, got %s", i, want, report.UnwindResults[i].StepID)
		}
	}

	for _, res := range report.UnwindResults {
		if res.StepID == step.DockerEngine && res.Outcome != execution.OutcomeCannotUndo {
			t.Errorf("engine install has no compensating action, got %s", res.Outcome)
		}
	}
}

func TestInstallConfigError(t *testing.T) {
	var out bytes.Buffer
	dh := New(&out)

	_, err := dh.Install(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), false)
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestHealth(t *testing.T) {
	dir := t.TempDir()
	configPath := writeManifest(t, dir, filepath.Join(dir, "stack"))

	runtime := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "api", Running: true, Probe: ports.ProbeHealthy}).
		AddContainer(ports.Container{Name: "db", Running: false, Probe: ports.ProbeNone})

	var out bytes.Buffer
	dh := New(&out).WithRuntime(runtime)

	report, err := dh.Health(context.Background(), configPath, 10)
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if report.Healthy() {
		t.Error("expected unhealthy verdict with a stopped service")
	}
	if len(report.Services) != 2 {
		t.Fatalf("expected 2 service reports, got %d", len(report.Services))
	}
	if report.Services[1].Status != health.StatusStopped {
		t.Errorf("expected db stopped, got %s", report.Services[1].Status)
	}
}

func TestPrintRunReport(t *testing.T) {
	var out bytes.Buffer
	dh := New(&out)

	dh.PrintRunReport(execution.RunReport{
		Results: []execution.StepResult{
			execution.NewStepResult(step.ToolsInstall, step.StatusSatisfied, nil),
		},
	})

	if !strings.Contains(out.String(), "Install complete") {
		t.Errorf("expected completion summary, got %q", out.String())
	}
}

package stack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
	"github.com/felixgeelhaar/dockhand/internal/testutil"
)

var services = []config.Service{{Name: "gateway", Port: 8080}, {Name: "worker"}}

func TestUpStep_Check_AllRunning(t *testing.T) {
	runner := testutil.NewFakeRunner().
		Script("docker compose ps", ports.CommandResult{ExitCode: 0, Stdout: "gateway\nworker\n"})
	s := NewUpStep("/opt/stack", services, runner)

	status, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestUpStep_Check_ServiceMissing(t *testing.T) {
	runner := testutil.NewFakeRunner().
		Script("docker compose ps", ports.CommandResult{ExitCode: 0, Stdout: "gateway\n"})
	s := NewUpStep("/opt/stack", services, runner)

	status, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestUpStep_Apply_RunsInBundleDir(t *testing.T) {
	runner := testutil.NewFakeRunner()
	s := NewUpStep("/opt/stack", services, runner)

	require.NoError(t, s.Apply(context.Background()))

	calls := runner.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "/opt/stack", calls[0].Dir)
	assert.Equal(t, []string{"compose", "up", "-d"}, calls[0].Args)
}

func TestUpStep_Apply_Fails(t *testing.T) {
	runner := testutil.NewFakeRunner().
		Script("docker compose up", ports.CommandResult{ExitCode: 1, Stderr: "port is already allocated"})
	s := NewUpStep("/opt/stack", services, runner)

	require.Error(t, s.Apply(context.Background()))
}

func TestUpStep_Rollback_ShutsDown(t *testing.T) {
	runner := testutil.NewFakeRunner()
	s := NewUpStep("/opt/stack", services, runner)

	require.NoError(t, s.Rollback(context.Background()))
	assert.True(t, runner.CalledWith("docker compose down"))
}

func TestHealthStep_Apply_HealthyStack(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeHealthy}).
		AddContainer(ports.Container{Name: "worker", Running: true, Probe: ports.ProbeNone})
	logger := testutil.NewRecordingLogger()
	reporter := health.NewReporter(rt, logger)
	s := NewHealthStep("/opt/stack", services, reporter, logger, testutil.NewFakeRunner())

	require.NoError(t, s.Apply(context.Background()))
	assert.True(t, logger.Logged(ports.LevelInfo, "stack healthy"))
}

func TestHealthStep_Apply_UnhealthyStackTolerated(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeUnhealthy})
	logger := testutil.NewRecordingLogger()
	reporter := health.NewReporter(rt, logger)
	s := NewHealthStep("/opt/stack", services, reporter, logger, testutil.NewFakeRunner())

	// Unhealthy verdict is diagnostic only; the step must not fail.
	require.NoError(t, s.Apply(context.Background()))
	assert.True(t, logger.Logged(ports.LevelWarn, "stack reported unhealthy, install continues"))
}

func TestHealthStep_Check_AlwaysRuns(t *testing.T) {
	s := NewHealthStep("/opt/stack", services, nil, testutil.NewRecordingLogger(), testutil.NewFakeRunner())

	status, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestHealthStep_Rollback_ShutsDown(t *testing.T) {
	runner := testutil.NewFakeRunner()
	s := NewHealthStep("/opt/stack", services, nil, testutil.NewRecordingLogger(), runner)

	require.NoError(t, s.Rollback(context.Background()))
	assert.True(t, runner.CalledWith("docker compose down"))
}

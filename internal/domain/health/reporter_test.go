package health

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/ports"
	"github.com/felixgeelhaar/dockhand/internal/testutil"
)

func newReporter(rt *testutil.FakeRuntime) *Reporter {
	return NewReporter(rt, testutil.NewRecordingLogger())
}

func TestReporter_NotFound(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	require.Len(t, report.Services, 1)
	assert.Equal(t, StatusNotFound, report.Services[0].Status)
	assert.False(t, report.Healthy())
}

func TestReporter_Stopped(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: false})
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.Equal(t, StatusStopped, report.Services[0].Status)
	assert.False(t, report.Healthy())
}

func TestReporter_HealthyAndUnhealthyMix(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeHealthy}).
		AddContainer(ports.Container{Name: "worker", Running: true, Probe: ports.ProbeUnhealthy})
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{
		{Name: "gateway"}, {Name: "worker"},
	})

	require.Len(t, report.Services, 2)
	assert.Equal(t, StatusOK, report.Services[0].Status)
	assert.Equal(t, StatusDegraded, report.Services[1].Status)
	assert.False(t, report.Healthy())

	failing := report.Failing()
	require.Len(t, failing, 1)
	assert.Equal(t, "worker", failing[0].Service.Name)
}

func TestReporter_UnmonitoredIsHealthy(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeNone})
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.Equal(t, StatusOKUnmonitored, report.Services[0].Status)
	assert.True(t, report.Healthy())
}

func TestReporter_StartingProbeIsDegraded(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeStarting})
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.Equal(t, StatusDegraded, report.Services[0].Status)
	assert.False(t, report.Healthy())
}

func TestReporter_ResultsInRegistryOrder(t *testing.T) {
	rt := testutil.NewFakeRuntime()
	services := []config.Service{
		{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"}, {Name: "delta"},
	}
	for _, svc := range services {
		rt.AddContainer(ports.Container{Name: svc.Name, Running: true, Probe: ports.ProbeNone})
	}
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), services)

	require.Len(t, report.Services, len(services))
	for i, svc := range services {
		assert.Equal(t, svc.Name, report.Services[i].Service.Name)
	}
}

func TestReporter_LogWindowBounded(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "line")
	}
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeHealthy}).
		SetLogs("gateway", strings.Join(lines, "\n"))
	reporter := newReporter(rt).WithLogLines(5)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.Len(t, report.Services[0].Logs, 5)
}

func TestReporter_MissingLogStreamDoesNotFailVerdict(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeHealthy}).
		SetLogsError("gateway", errors.New("no log driver"))
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.True(t, report.Healthy())
	assert.Contains(t, report.Services[0].LogNote, "log stream unavailable")
	assert.Empty(t, report.Services[0].Logs)
}

func TestReporter_CollectsUsage(t *testing.T) {
	rt := testutil.NewFakeRuntime().
		AddContainer(ports.Container{Name: "gateway", Running: true, Probe: ports.ProbeHealthy}).
		SetUsage("gateway", "0.45% 120MiB / 4GiB\n")
	reporter := newReporter(rt)

	report := reporter.Report(context.Background(), []config.Service{{Name: "gateway"}})

	assert.Equal(t, "0.45% 120MiB / 4GiB", report.Services[0].Usage)
}

func TestStatus_Failing(t *testing.T) {
	assert.True(t, StatusNotFound.Failing())
	assert.True(t, StatusStopped.Failing())
	assert.True(t, StatusDegraded.Failing())
	assert.False(t, StatusOK.Failing())
	assert.False(t, StatusOKUnmonitored.Failing())
}

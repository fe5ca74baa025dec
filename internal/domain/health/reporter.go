package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// DefaultLogLines is the bounded log window collected per service.
const DefaultLogLines = 20

// Reporter queries the container runtime for each registry entry and
// classifies it. Queries are independent reads, so they fan out
// concurrently; results are reassembled in registry order.
type Reporter struct {
	runtime  ports.ContainerRuntime
	logger   ports.Logger
	logLines int
}

// NewReporter creates a new Reporter.
func NewReporter(runtime ports.ContainerRuntime, logger ports.Logger) *Reporter {
	return &Reporter{
		runtime:  runtime,
		logger:   logger,
		logLines: DefaultLogLines,
	}
}

// WithLogLines returns a Reporter collecting up to n log lines per service.
func (r *Reporter) WithLogLines(n int) *Reporter {
	return &Reporter{
		runtime:  r.runtime,
		logger:   r.logger,
		logLines: n,
	}
}

// Report runs one health pass over the registry.
func (r *Reporter) Report(ctx context.Context, services []config.Service) Report {
	reports := make([]ServiceReport, len(services))

	var wg sync.WaitGroup
	for i, svc := range services {
		wg.Add(1)
		go func(i int, svc config.Service) {
			defer wg.Done()
			reports[i] = r.checkService(ctx, svc)
		}(i, svc)
	}
	wg.Wait()

	report := Report{Services: reports}
	for _, sr := range reports {
		r.logger.Info(ctx, "service checked",
			ports.F("service", sr.Service.Name),
			ports.F("status", sr.Status.String()))
	}
	if !report.Healthy() {
		r.logger.Warn(ctx, "health verdict: failure",
			ports.F("failing", len(report.Failing())))
	}

	return report
}

// checkService classifies a single service. Classification priority:
// not-found, stopped, degraded, ok, ok-unmonitored.
func (r *Reporter) checkService(ctx context.Context, svc config.Service) ServiceReport {
	report := ServiceReport{Service: svc}

	container, err := r.runtime.Inspect(ctx, svc.Name)
	if err != nil {
		if errors.Is(err, ports.ErrContainerNotFound) {
			report.Status = StatusNotFound
			report.Detail = "no container instance found"
			return report
		}
		report.Status = StatusNotFound
		report.Detail = fmt.Sprintf("inspect failed: %v", err)
		return report
	}

	if !container.Running {
		report.Status = StatusStopped
		report.Detail = "container exists but is not running"
		r.collectLogs(ctx, &report)
		return report
	}

	switch container.Probe {
	case ports.ProbeHealthy:
		report.Status = StatusOK
		report.Detail = "health probe reports healthy"
	case ports.ProbeUnhealthy:
		report.Status = StatusDegraded
		report.Detail = "health probe reports unhealthy"
	case ports.ProbeStarting:
		report.Status = StatusDegraded
		report.Detail = "health probe has not settled"
	case ports.ProbeNone:
		report.Status = StatusOKUnmonitored
		report.Detail = "running, no health probe declared"
	default:
		report.Status = StatusDegraded
		report.Detail = fmt.Sprintf("unrecognized probe state %q", container.Probe)
	}

	r.collectLogs(ctx, &report)
	r.collectUsage(ctx, &report)
	return report
}

// collectLogs fills the bounded log window. A missing log stream is
// reported in LogNote and never affects the verdict.
func (r *Reporter) collectLogs(ctx context.Context, report *ServiceReport) {
	out, err := r.runtime.TailLogs(ctx, report.Service.Name, r.logLines)
	if err != nil {
		report.LogNote = fmt.Sprintf("log stream unavailable: %v", err)
		return
	}

	out = strings.TrimRight(out, "\n")
	if out == "" {
		report.LogNote = "no log output"
		return
	}

	lines := strings.Split(out, "\n")
	if len(lines) > r.logLines {
		lines = lines[len(lines)-r.logLines:]
	}
	report.Logs = lines
}

func (r *Reporter) collectUsage(ctx context.Context, report *ServiceReport) {
	usage, err := r.runtime.Usage(ctx, report.Service.Name)
	if err != nil {
		return
	}
	report.Usage = strings.TrimSpace(usage)
}

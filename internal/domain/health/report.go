package health

import "github.com/felixgeelhaar/dockhand/internal/domain/config"

// ServiceReport is the outcome of checking a single registry entry.
type ServiceReport struct {
	Service config.Service
	Status  Status
	// Detail explains the classification (probe state, inspect error).
	Detail string
	// Logs is the bounded recent log window, newest last. Diagnostic only.
	Logs []string
	// LogNote records why logs are missing, if they are. Never affects
	// the verdict.
	LogNote string
	// Usage is a one-line resource usage summary for running containers.
	Usage string
}

// Report aggregates the per-service results of one health pass.
type Report struct {
	Services []ServiceReport
}

// Healthy returns the aggregate verdict: true iff no service is failing.
func (r Report) Healthy() bool {
	for _, s := range r.Services {
		if s.Status.Failing() {
			return false
		}
	}
	return true
}

// Failing returns the reports of services contributing to a failed verdict.
func (r Report) Failing() []ServiceReport {
	var out []ServiceReport
	for _, s := range r.Services {
		if s.Status.Failing() {
			out = append(out, s)
		}
	}
	return out
}

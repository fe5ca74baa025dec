// Package health classifies container service state and aggregates a
// single pass/fail verdict over the service registry.
package health

// Status classifies one service's observed state.
type Status string

const (
	// StatusNotFound means no container instance exists for the service.
	StatusNotFound Status = "not-found"
	// StatusStopped means the container exists but is not running.
	StatusStopped Status = "stopped"
	// StatusDegraded means the container runs but its health probe does
	// not report healthy.
	StatusDegraded Status = "degraded"
	// StatusOK means the container runs and its health probe is healthy.
	StatusOK Status = "ok"
	// StatusOKUnmonitored means the container runs with no health probe
	// declared. Not a failure.
	StatusOKUnmonitored Status = "ok-unmonitored"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Failing returns true if this status contributes to an aggregate failure.
func (s Status) Failing() bool {
	switch s {
	case StatusNotFound, StatusStopped, StatusDegraded:
		return true
	case StatusOK, StatusOKUnmonitored:
		return false
	}
	return false
}

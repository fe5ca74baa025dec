package ports

import (
	"context"
	"errors"
)

// ErrContainerNotFound is returned by Inspect when no container instance
// exists for the requested name.
var ErrContainerNotFound = errors.New("container not found")

// ProbeState is the result of a container's declared health probe.
type ProbeState string

const (
	// ProbeNone means the container declares no health probe.
	ProbeNone ProbeState = "none"
	// ProbeHealthy means the probe currently reports healthy.
	ProbeHealthy ProbeState = "healthy"
	// ProbeUnhealthy means the probe currently reports unhealthy.
	ProbeUnhealthy ProbeState = "unhealthy"
	// ProbeStarting means the probe has not settled yet.
	ProbeStarting ProbeState = "starting"
)

// Container is the observed state of a single container instance.
type Container struct {
	Name    string
	Running bool
	Probe   ProbeState
}

// ContainerRuntime queries the container runtime for service state.
// Reads only; starting and stopping the stack goes through the compose
// steps, not this interface.
type ContainerRuntime interface {
	// Inspect returns the state of the named container.
	// Returns ErrContainerNotFound if no instance exists.
	Inspect(ctx context.Context, name string) (Container, error)

	// TailLogs returns up to lines of the most recent log output.
	TailLogs(ctx context.Context, name string, lines int) (string, error)

	// Usage returns a one-line resource usage summary (CPU, memory).
	Usage(ctx context.Context, name string) (string, error)
}

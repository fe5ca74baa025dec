// Package dockercli adapts the docker CLI to the ContainerRuntime port.
package dockercli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// inspectFormat extracts running state and probe status in one call.
// Containers without a declared probe render "none".
const inspectFormat = `{{.State.Running}}|{{if .State.Health}}{{.State.Health.Status}}{{else}}none{{end}}`

// Runtime queries container state through the docker CLI.
type Runtime struct {
	runner ports.CommandRunner
}

// NewRuntime creates a new Runtime.
func NewRuntime(runner ports.CommandRunner) *Runtime {
	return &Runtime{runner: runner}
}

// Inspect implements ports.ContainerRuntime.
func (r *Runtime) Inspect(ctx context.Context, name string) (ports.Container, error) {
	result, err := r.runner.Run(ctx, "docker", "inspect", "--format", inspectFormat, name)
	if err != nil {
		return ports.Container{}, fmt.Errorf("docker inspect %s: %w", name, err)
	}

	if !result.Success() {
		if strings.Contains(result.Stderr, "No such object") ||
			strings.Contains(result.Stderr, "No such container") {
			return ports.Container{}, ports.ErrContainerNotFound
		}
		return ports.Container{}, fmt.Errorf("docker inspect %s: %s", name, strings.TrimSpace(result.Stderr))
	}

	return parseInspectOutput(name, result.Stdout)
}

// TailLogs implements ports.ContainerRuntime. Both log streams are
// combined; docker writes container stderr to its own stderr.
func (r *Runtime) TailLogs(ctx context.Context, name string, lines int) (string, error) {
	result, err := r.runner.Run(ctx, "docker", "logs", "--tail", strconv.Itoa(lines), name)
	if err != nil {
		return "", fmt.Errorf("docker logs %s: %w", name, err)
	}
	if !result.Success() {
		return "", fmt.Errorf("docker logs %s: %s", name, strings.TrimSpace(result.Stderr))
	}
	return result.Stdout + result.Stderr, nil
}

// Usage implements ports.ContainerRuntime.
func (r *Runtime) Usage(ctx context.Context, name string) (string, error) {
	result, err := r.runner.Run(ctx, "docker", "stats", "--no-stream", "--format",
		"cpu {{.CPUPerc}} mem {{.MemUsage}}", name)
	if err != nil {
		return "", fmt.Errorf("docker stats %s: %w", name, err)
	}
	if !result.Success() {
		return "", fmt.Errorf("docker stats %s: %s", name, strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}

func parseInspectOutput(name, out string) (ports.Container, error) {
	parts := strings.Split(strings.TrimSpace(out), "|")
	if len(parts) != 2 {
		return ports.Container{}, fmt.Errorf("unexpected inspect output for %s: %q", name, out)
	}

	running, err := strconv.ParseBool(parts[0])
	if err != nil {
		return ports.Container{}, fmt.Errorf("unexpected running state for %s: %q", name, parts[0])
	}

	container := ports.Container{
		Name:    name,
		Running: running,
	}

	switch parts[1] {
	case "healthy":
		container.Probe = ports.ProbeHealthy
	case "unhealthy":
		container.Probe = ports.ProbeUnhealthy
	case "starting":
		container.Probe = ports.ProbeStarting
	case "none":
		container.Probe = ports.ProbeNone
	default:
		container.Probe = ports.ProbeState(parts[1])
	}

	return container, nil
}

// Ensure Runtime implements ports.ContainerRuntime.
var _ ports.ContainerRuntime = (*Runtime)(nil)

// Package docker provides the container runtime installation steps.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// EngineStep installs the Docker Engine. Removing an engine that may
// already host unrelated containers is not safe, so the step defines no
// compensating action.
type EngineStep struct {
	id     step.ID
	runner ports.CommandRunner
}

// NewEngineStep creates the Docker Engine installation step.
func NewEngineStep(runner ports.CommandRunner) *EngineStep {
	return &EngineStep{
		id:     step.DockerEngine,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *EngineStep) ID() step.ID {
	return s.id
}

// Check determines if the engine is installed.
func (s *EngineStep) Check(ctx context.Context) (step.Status, error) {
	result, err := s.runner.Run(ctx, "docker", "--version")
	if err != nil {
		// Command not found means the engine needs to be installed.
		return step.StatusNeedsApply, nil //nolint:nilerr // intentional: command failure = needs apply
	}
	if result.Success() && strings.Contains(result.Stdout, "Docker version") {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply installs the engine with the upstream convenience script and
// makes sure the daemon is running.
func (s *EngineStep) Apply(ctx context.Context) error {
	result, err := s.runner.Run(ctx, "sh", "-c", "curl -fsSL https://get.docker.com | sh")
	if err != nil {
		return fmt.Errorf("docker engine install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("docker engine install failed: %s", strings.TrimSpace(result.Stderr))
	}

	enable, err := s.runner.Run(ctx, "systemctl", "enable", "--now", "docker")
	if err != nil {
		return fmt.Errorf("enable docker daemon: %w", err)
	}
	if !enable.Success() {
		return fmt.Errorf("enable docker daemon failed: %s", strings.TrimSpace(enable.Stderr))
	}
	return nil
}

// ComposeStep installs the compose plugin. Same irreversibility as the
// engine: no compensating action.
type ComposeStep struct {
	id     step.ID
	runner ports.CommandRunner
}

// NewComposeStep creates the compose plugin installation step.
func NewComposeStep(runner ports.CommandRunner) *ComposeStep {
	return &ComposeStep{
		id:     step.DockerCompose,
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *ComposeStep) ID() step.ID {
	return s.id
}

// Check determines if the compose plugin is available.
func (s *ComposeStep) Check(ctx context.Context) (step.Status, error) {
	result, err := s.runner.Run(ctx, "docker", "compose", "version")
	if err != nil {
		return step.StatusNeedsApply, nil //nolint:nilerr // intentional: command failure = needs apply
	}
	if result.Success() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply installs the compose plugin from the distribution repository.
func (s *ComposeStep) Apply(ctx context.Context) error {
	result, err := s.runner.Run(ctx, "apt-get", "install", "-y", "-qq", "docker-compose-plugin")
	if err != nil {
		return fmt.Errorf("compose plugin install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("compose plugin install failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure both steps implement step.Step.
var (
	_ step.Step = (*EngineStep)(nil)
	_ step.Step = (*ComposeStep)(nil)
)

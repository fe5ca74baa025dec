// Package stack provides the compose stack start and closing health steps.
package stack

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/dockhand/internal/domain/config"
	"github.com/felixgeelhaar/dockhand/internal/domain/health"
	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// UpStep starts the bundle's compose stack. The compensating action shuts
// it down again.
type UpStep struct {
	id         step.ID
	installDir string
	services   []config.Service
	runner     ports.CommandRunner
}

// NewUpStep creates the stack start step.
func NewUpStep(installDir string, services []config.Service, runner ports.CommandRunner) *UpStep {
	return &UpStep{
		id:         step.StackUp,
		installDir: installDir,
		services:   services,
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *UpStep) ID() step.ID {
	return s.id
}

// Check reports satisfied when every registry service is already running.
func (s *UpStep) Check(ctx context.Context) (step.Status, error) {
	result, err := s.runner.RunIn(ctx, s.installDir, "docker", "compose", "ps", "--services", "--status", "running")
	if err != nil {
		return step.StatusNeedsApply, nil //nolint:nilerr // intentional: command failure = needs apply
	}
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}

	running := make(map[string]bool)
	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		running[strings.TrimSpace(line)] = true
	}
	for _, svc := range s.services {
		if !running[svc.Name] {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply starts the stack detached.
func (s *UpStep) Apply(ctx context.Context) error {
	result, err := s.runner.RunIn(ctx, s.installDir, "docker", "compose", "up", "-d")
	if err != nil {
		return fmt.Errorf("compose up: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("compose up failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Rollback shuts the stack down. Compose down on a stopped stack is a
// no-op, keeping the compensation idempotent.
func (s *UpStep) Rollback(ctx context.Context) error {
	result, err := s.runner.RunIn(ctx, s.installDir, "docker", "compose", "down")
	if err != nil {
		return fmt.Errorf("compose down: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("compose down failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// HealthStep runs a closing health pass over the freshly started stack.
// An unhealthy verdict is diagnostic, not fatal: the installer logs it and
// completes. The compensating action mirrors the stack start and shuts
// the stack down.
type HealthStep struct {
	id         step.ID
	installDir string
	services   []config.Service
	reporter   *health.Reporter
	logger     ports.Logger
	runner     ports.CommandRunner
}

// NewHealthStep creates the closing health check step.
func NewHealthStep(installDir string, services []config.Service, reporter *health.Reporter, logger ports.Logger, runner ports.CommandRunner) *HealthStep {
	return &HealthStep{
		id:         step.StackHealth,
		installDir: installDir,
		services:   services,
		reporter:   reporter,
		logger:     logger,
		runner:     runner,
	}
}

// ID returns the step identifier.
func (s *HealthStep) ID() step.ID {
	return s.id
}

// Check always requests a run; a health pass is a fresh observation.
func (s *HealthStep) Check(_ context.Context) (step.Status, error) {
	return step.StatusNeedsApply, nil
}

// Apply runs the reporter and logs the verdict.
func (s *HealthStep) Apply(ctx context.Context) error {
	report := s.reporter.Report(ctx, s.services)

	if report.Healthy() {
		s.logger.Info(ctx, "stack healthy", ports.F("services", len(report.Services)))
		return nil
	}

	for _, failing := range report.Failing() {
		s.logger.Warn(ctx, "service unhealthy after install",
			ports.F("service", failing.Service.Name),
			ports.F("status", failing.Status.String()),
			ports.F("detail", failing.Detail))
	}
	s.logger.Warn(ctx, "stack reported unhealthy, install continues",
		ports.F("failing", len(report.Failing())))
	return nil
}

// Rollback shuts the stack down.
func (s *HealthStep) Rollback(ctx context.Context) error {
	result, err := s.runner.RunIn(ctx, s.installDir, "docker", "compose", "down")
	if err != nil {
		return fmt.Errorf("compose down: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("compose down failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure both steps implement step.Rollbackable.
var (
	_ step.Rollbackable = (*UpStep)(nil)
	_ step.Rollbackable = (*HealthStep)(nil)
)

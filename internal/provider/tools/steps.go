// Package tools provides the prerequisite CLI tools step.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// DefaultTools are the host utilities the later steps shell out to.
var DefaultTools = []string{"curl", "jq", "tar"}

// InstallStep installs prerequisite tools through the system package
// manager. Package installs cannot be safely reversed, so the step defines
// no compensating action.
type InstallStep struct {
	id     step.ID
	tools  []string
	runner ports.CommandRunner
}

// NewInstallStep creates the prerequisite tools step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{
		id:     step.ToolsInstall,
		tools:  DefaultTools,
		runner: runner,
	}
}

// WithTools overrides the tool list.
func (s *InstallStep) WithTools(tools []string) *InstallStep {
	return &InstallStep{id: s.id, tools: tools, runner: s.runner}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return s.id
}

// Check reports satisfied when every tool resolves on PATH.
func (s *InstallStep) Check(ctx context.Context) (step.Status, error) {
	for _, tool := range s.tools {
		result, err := s.runner.Run(ctx, "sh", "-c", "command -v "+tool)
		if err != nil {
			return step.StatusUnknown, fmt.Errorf("looking up %s: %w", tool, err)
		}
		if !result.Success() {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply installs the tool list in one package manager transaction.
func (s *InstallStep) Apply(ctx context.Context) error {
	update, err := s.runner.Run(ctx, "apt-get", "update", "-qq")
	if err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	if !update.Success() {
		return fmt.Errorf("apt-get update failed: %s", strings.TrimSpace(update.Stderr))
	}

	args := append([]string{"install", "-y", "-qq"}, s.tools...)
	result, err := s.runner.Run(ctx, "apt-get", args...)
	if err != nil {
		return fmt.Errorf("apt-get install: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s",
			strings.Join(s.tools, " "), strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure the step implements step.Step and stays non-rollbackable.
var _ step.Step = (*InstallStep)(nil)

// Package kernel provides the sysctl tuning step.
package kernel

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/dockhand/internal/domain/step"
	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// DefaultConfPath is the sysctl drop-in owned by dockhand.
const DefaultConfPath = "/etc/sysctl.d/99-dockhand.conf"

// SysctlStep writes the manifest's kernel parameters to a drop-in file and
// applies them. The compensating action removes the drop-in and re-applies
// the system configuration.
type SysctlStep struct {
	id       step.ID
	params   map[string]string
	confPath string
	runner   ports.CommandRunner
}

// NewSysctlStep creates the kernel tuning step.
func NewSysctlStep(params map[string]string, runner ports.CommandRunner) *SysctlStep {
	return &SysctlStep{
		id:       step.KernelTuning,
		params:   params,
		confPath: DefaultConfPath,
		runner:   runner,
	}
}

// WithConfPath overrides the drop-in location.
func (s *SysctlStep) WithConfPath(path string) *SysctlStep {
	return &SysctlStep{id: s.id, params: s.params, confPath: path, runner: s.runner}
}

// ID returns the step identifier.
func (s *SysctlStep) ID() step.ID {
	return s.id
}

// Check compares the live kernel values against the targets.
func (s *SysctlStep) Check(ctx context.Context) (step.Status, error) {
	if len(s.params) == 0 {
		return step.StatusSatisfied, nil
	}

	for key, want := range s.params {
		result, err := s.runner.Run(ctx, "sysctl", "-n", key)
		if err != nil {
			return step.StatusUnknown, fmt.Errorf("reading %s: %w", key, err)
		}
		if !result.Success() {
			return step.StatusNeedsApply, nil
		}
		if strings.TrimSpace(result.Stdout) != want {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply writes the drop-in and reloads kernel parameters.
func (s *SysctlStep) Apply(ctx context.Context) error {
	file := ini.Empty()
	section := file.Section("")

	keys := make([]string, 0, len(s.params))
	for key := range s.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, err := section.NewKey(key, s.params[key]); err != nil {
			return fmt.Errorf("building sysctl drop-in: %w", err)
		}
	}

	if err := file.SaveTo(s.confPath); err != nil {
		return fmt.Errorf("writing %s: %w", s.confPath, err)
	}

	return s.reload(ctx)
}

// Rollback removes the drop-in and reloads.
func (s *SysctlStep) Rollback(ctx context.Context) error {
	if err := os.Remove(s.confPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", s.confPath, err)
	}
	return s.reload(ctx)
}

func (s *SysctlStep) reload(ctx context.Context) error {
	result, err := s.runner.Run(ctx, "sysctl", "--system")
	if err != nil {
		return fmt.Errorf("sysctl --system: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("sysctl --system failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure the step implements step.Rollbackable.
var _ step.Rollbackable = (*SysctlStep)(nil)

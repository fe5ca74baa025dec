// Package ports defines interfaces for external collaborators.
package ports

import (
	"context"
)

// CommandResult represents the result of executing a shell command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Dir     string
	Command string
	Args    []string
}

// CommandRunner executes shell commands. All package-manager, sysctl and
// container-runtime invocations go through this interface so they can be
// scripted in tests.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)

	// RunIn executes a command with the given working directory. Compose
	// operations resolve their project relative to the bundle directory.
	RunIn(ctx context.Context, dir string, command string, args ...string) (CommandResult, error)
}

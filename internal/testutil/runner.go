// Package testutil provides scripted fakes for the ports interfaces.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// FakeRunner is a scripted ports.CommandRunner. Responses are keyed by the
// command line prefix ("docker inspect", "apt-get install", ...); the
// longest matching prefix wins. Unscripted commands succeed with empty
// output so tests only script what they assert on.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]ports.CommandResult
	errs      map[string]error
	calls     []ports.CommandCall
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		responses: make(map[string]ports.CommandResult),
		errs:      make(map[string]error),
	}
}

// Script registers a result for any command line starting with prefix.
func (f *FakeRunner) Script(prefix string, result ports.CommandResult) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = result
	return f
}

// ScriptError registers a hard error (command not runnable) for a prefix.
func (f *FakeRunner) ScriptError(prefix string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[prefix] = err
	return f
}

// Run implements ports.CommandRunner.
func (f *FakeRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	return f.record("", command, args)
}

// RunIn implements ports.CommandRunner.
func (f *FakeRunner) RunIn(_ context.Context, dir string, command string, args ...string) (ports.CommandResult, error) {
	return f.record(dir, command, args)
}

// Calls returns all recorded invocations in order.
func (f *FakeRunner) Calls() []ports.CommandCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.CommandCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CalledWith reports whether any recorded command line starts with prefix.
func (f *FakeRunner) CalledWith(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(commandLine(c.Command, c.Args), prefix) {
			return true
		}
	}
	return false
}

func (f *FakeRunner) record(dir, command string, args []string) (ports.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, ports.CommandCall{Dir: dir, Command: command, Args: args})

	line := commandLine(command, args)
	var bestPrefix string
	for prefix := range f.errs {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
		}
	}
	for prefix := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
		}
	}

	if bestPrefix != "" {
		if err, ok := f.errs[bestPrefix]; ok {
			return ports.CommandResult{}, err
		}
		return f.responses[bestPrefix], nil
	}

	return ports.CommandResult{ExitCode: 0}, nil
}

func commandLine(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return fmt.Sprintf("%s %s", command, strings.Join(args, " "))
}

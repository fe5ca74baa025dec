package testutil

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// FakeRuntime is a scripted ports.ContainerRuntime keyed by container name.
type FakeRuntime struct {
	mu         sync.Mutex
	containers map[string]ports.Container
	logs       map[string]string
	logErrs    map[string]error
	usage      map[string]string
}

// NewFakeRuntime creates an empty FakeRuntime. Unknown names report
// ports.ErrContainerNotFound.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{
		containers: make(map[string]ports.Container),
		logs:       make(map[string]string),
		logErrs:    make(map[string]error),
		usage:      make(map[string]string),
	}
}

// AddContainer registers a container state.
func (f *FakeRuntime) AddContainer(c ports.Container) *FakeRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.containers[c.Name] = c
	return f
}

// SetLogs registers log output for a container.
func (f *FakeRuntime) SetLogs(name, output string) *FakeRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[name] = output
	return f
}

// SetLogsError makes TailLogs fail for a container.
func (f *FakeRuntime) SetLogsError(name string, err error) *FakeRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logErrs[name] = err
	return f
}

// SetUsage registers a resource usage line for a container.
func (f *FakeRuntime) SetUsage(name, line string) *FakeRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usage[name] = line
	return f
}

// Inspect implements ports.ContainerRuntime.
func (f *FakeRuntime) Inspect(_ context.Context, name string) (ports.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.containers[name]
	if !ok {
		return ports.Container{}, ports.ErrContainerNotFound
	}
	return c, nil
}

// TailLogs implements ports.ContainerRuntime.
func (f *FakeRuntime) TailLogs(_ context.Context, name string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.logErrs[name]; ok {
		return "", err
	}
	return f.logs[name], nil
}

// Usage implements ports.ContainerRuntime.
func (f *FakeRuntime) Usage(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usage[name], nil
}

// Ensure the interface is satisfied.
var _ ports.ContainerRuntime = (*FakeRuntime)(nil)

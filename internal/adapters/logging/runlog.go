package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// RunLog is a logger that mirrors every entry to the console and to an
// append-only per-run log file. The file name carries the run timestamp so
// repeated runs never overwrite each other.
type RunLog struct {
	console ports.Logger
	file    ports.Logger
	f       *os.File
	path    string
}

// NewRunLog opens the run log file under dir and tees entries to console.
// The command name distinguishes install and health runs.
func NewRunLog(dir, command string, console ports.Logger, at time.Time) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("dockhand-%s-%s.log", command, at.Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	return &RunLog{
		console: console,
		file:    NewConsoleLogger(WithOutput(f), WithLevel(ports.LevelDebug)),
		f:       f,
		path:    path,
	}, nil
}

// Path returns the run log file location.
func (l *RunLog) Path() string {
	return l.path
}

// Close flushes and closes the underlying file.
func (l *RunLog) Close() error {
	return l.f.Close()
}

// Debug implements ports.Logger.
func (l *RunLog) Debug(ctx context.Context, msg string, fields ...ports.Field) {
	l.console.Debug(ctx, msg, fields...)
	l.file.Debug(ctx, msg, fields...)
}

// Info implements ports.Logger.
func (l *RunLog) Info(ctx context.Context, msg string, fields ...ports.Field) {
	l.console.Info(ctx, msg, fields...)
	l.file.Info(ctx, msg, fields...)
}

// Warn implements ports.Logger.
func (l *RunLog) Warn(ctx context.Context, msg string, fields ...ports.Field) {
	l.console.Warn(ctx, msg, fields...)
	l.file.Warn(ctx, msg, fields...)
}

// Error implements ports.Logger.
func (l *RunLog) Error(ctx context.Context, msg string, fields ...ports.Field) {
	l.console.Error(ctx, msg, fields...)
	l.file.Error(ctx, msg, fields...)
}

// With implements ports.Logger. The derived logger shares the same file.
func (l *RunLog) With(fields ...ports.Field) ports.Logger {
	return &RunLog{
		console: l.console.With(fields...),
		file:    l.file.With(fields...),
		f:       l.f,
		path:    l.path,
	}
}

// Ensure RunLog implements Logger.
var _ ports.Logger = (*RunLog)(nil)

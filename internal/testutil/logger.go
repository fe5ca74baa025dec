package testutil

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/dockhand/internal/ports"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level  ports.Level
	Msg    string
	Fields []ports.Field
}

// RecordingLogger captures log entries for assertions. Loggers derived via
// With share the parent's entry store.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	base    []ports.Field
	parent  *RecordingLogger
}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

// Debug implements ports.Logger.
func (l *RecordingLogger) Debug(_ context.Context, msg string, fields ...ports.Field) {
	l.append(ports.LevelDebug, msg, fields)
}

// Info implements ports.Logger.
func (l *RecordingLogger) Info(_ context.Context, msg string, fields ...ports.Field) {
	l.append(ports.LevelInfo, msg, fields)
}

// Warn implements ports.Logger.
func (l *RecordingLogger) Warn(_ context.Context, msg string, fields ...ports.Field) {
	l.append(ports.LevelWarn, msg, fields)
}

// Error implements ports.Logger.
func (l *RecordingLogger) Error(_ context.Context, msg string, fields ...ports.Field) {
	l.append(ports.LevelError, msg, fields)
}

// With implements ports.Logger.
func (l *RecordingLogger) With(fields ...ports.Field) ports.Logger {
	return &RecordingLogger{
		base:   append(append([]ports.Field{}, l.base...), fields...),
		parent: l.root(),
	}
}

// Entries returns all captured entries in order.
func (l *RecordingLogger) Entries() []LogEntry {
	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	out := make([]LogEntry, len(root.entries))
	copy(out, root.entries)
	return out
}

// Logged reports whether a message was captured at the given level.
func (l *RecordingLogger) Logged(level ports.Level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}

func (l *RecordingLogger) root() *RecordingLogger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

func (l *RecordingLogger) append(level ports.Level, msg string, fields []ports.Field) {
	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	all := append(append([]ports.Field{}, l.base...), fields...)
	root.entries = append(root.entries, LogEntry{Level: level, Msg: msg, Fields: all})
}

// Ensure the interface is satisfied.
var _ ports.Logger = (*RecordingLogger)(nil)

package logging

import "github.com/vvka-141/taxiload/pkg/taxiload"

// NullLogger is a no-op logger that discards all log messages.
// Safe for concurrent use by multiple goroutines.
// Used by tests and library callers that do not want output.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

// Verbose is a no-op.
func (l *NullLogger) Verbose(format string, args ...interface{}) {}

// Info is a no-op.
func (l *NullLogger) Info(format string, args ...interface{}) {}

// Error is a no-op.
func (l *NullLogger) Error(format string, args ...interface{}) {}

var (
	_ taxiload.Logger = (*NullLogger)(nil)
	_ taxiload.Logger = (*ConsoleLogger)(nil)
	_ taxiload.Logger = (*ZapLogger)(nil)
)

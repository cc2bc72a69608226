// Package logging provides concrete implementations of the taxiload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Human-readable lines on stderr, tagged with the run ID in verbose mode
//   - ZapLogger: One JSON object per message, for log collectors
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

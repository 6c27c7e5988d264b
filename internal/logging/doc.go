// Package logging provides concrete implementations of the txload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes formatted lines to stderr (or any io.Writer), leaving stdout to the success message
//   - NullLogger: discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

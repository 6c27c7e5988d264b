package txload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := loader.Load(ctx, config)
//	if errors.Is(err, txload.ErrDateParse) {
//	    // Handle a bad timestamp in a source file
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceFile indicates a source file is missing, unreadable or malformed.
	ErrSourceFile = errors.New("source file error")

	// ErrDateParse indicates a date column is missing or holds an unparseable value.
	ErrDateParse = errors.New("date parse failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrWriteFailed indicates a destination table could not be replaced.
	ErrWriteFailed = errors.New("write failed")
)

var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrSourceFile):
		return ExitSourceFileError
	case errors.Is(err, ErrDateParse):
		return ExitDateParseError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrWriteFailed):
		return ExitWriteFailed
	}

	errStr := err.Error()

	// Cobra reports usage problems as plain errors
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	// Check for common connection error patterns
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

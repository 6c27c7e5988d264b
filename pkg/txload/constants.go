package txload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Both tables loaded
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitSourceFileError = 20 // Source file missing, unreadable or malformed
	ExitDateParseError  = 21 // Date column missing or value not parseable
	ExitWriteFailed     = 22 // Destination table write failed
)

// Default source files and destinations for the fraud detection dataset.
const (
	DefaultTrainPath  = "data/fraudTrain.csv"
	DefaultTestPath   = "data/fraudTest.csv"
	DefaultTrainTable = "train_transactions"
	DefaultTestTable  = "test_transactions"

	// DefaultDatabase is the database used when none is configured.
	DefaultDatabase = "fraud_detection"

	// DefaultManagementDB is the database name assumed by bare connection strings.
	DefaultManagementDB = "postgres"

	// DefaultAppName is reported to PostgreSQL as application_name.
	DefaultAppName = "txload"
)

// Column names converted to timestamps in every dataset unless overridden.
const (
	ColumnTransactionTime = "trans_date_trans_time"
	ColumnDateOfBirth     = "dob"
)

// DefaultDateColumns returns the columns coerced to timestamps by default.
func DefaultDateColumns() []string {
	return []string{ColumnTransactionTime, ColumnDateOfBirth}
}

const (
	// DefaultTimeout guards the whole run against hangs on network or locks.
	DefaultTimeout = 30 * time.Minute

	// SuccessMessage is printed to stdout once both tables are written.
	SuccessMessage = "Data imported successfully!"

	// MaxValuePreviewLength caps how much of an offending cell is echoed in errors.
	MaxValuePreviewLength = 80
)

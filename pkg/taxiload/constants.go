package taxiload

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess            = 0  // Load completed and committed
	ExitGeneralError       = 1  // Unknown or unclassified error
	ExitUsageError         = 2  // CLI usage error (missing args, invalid flags, prompt cancelled)
	ExitPanic              = 3  // Internal panic (unexpected crash)
	ExitConfigError        = 10 // Invalid configuration
	ExitConnectionError    = 11 // Failed to connect to database
	ExitDecompressionError = 20 // Input missing, unreadable or not bz2
	ExitParseError         = 21 // Input is not a 17-column CSV
	ExitInsertError        = 22 // Bulk insert rolled back
)

const (
	// DefaultTable is the destination table for trip rows.
	DefaultTable = "taxi_data_table"

	// DefaultHost, DefaultUser and DefaultDatabase are offered when nothing else
	// supplies a value.
	DefaultHost     = "localhost"
	DefaultUser     = "root"
	DefaultDatabase = "taxi_database"

	DefaultPostgresPort = 5432
	DefaultMySQLPort    = 3306

	// UnknownIdentifier replaces an absent medallion or hack license.
	UnknownIdentifier = "UNKNOWN"

	// UnknownPaymentType replaces an absent payment type.
	UnknownPaymentType = "UNK"

	// FallbackTimestamp is written for pickup/dropoff values that are still null at insert time.
	FallbackTimestamp = "2013-01-01 12:02:00"

	// InputDateLayout is the layout of the pickup/dropoff columns in the source file.
	InputDateLayout = "1/2/2006 15:04"

	// OutputDateLayout is the layout timestamps are bound with at insert time.
	OutputDateLayout = "2006-01-02 15:04:05"

	// AppName is reported to the server as application_name.
	AppName = "taxiload"
)

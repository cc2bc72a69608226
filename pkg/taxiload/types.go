package taxiload

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Columns lists the 17 trip columns in file order. The input CSV is headerless,
// so column identity is positional and follows this list exactly.
var Columns = []string{
	"medallion",
	"hack_license",
	"pickup_datetime",
	"dropoff_datetime",
	"trip_time_in_secs",
	"trip_distance",
	"pickup_longitude",
	"pickup_latitude",
	"dropoff_longitude",
	"dropoff_latitude",
	"payment_type",
	"fare_amount",
	"surcharge",
	"mta_tax",
	"tip_amount",
	"tolls_amount",
	"total_amount",
}

// TripRecord is one cleaned row of the trip file.
//
// Identifier and categorical fields are never empty after cleaning.
// FareAmount and TripDistance are always set (0.0 when the cell was absent or
// non-numeric). Pickup/Dropoff stay null when the cell did not match the date
// format; the writer substitutes FallbackTimestamp for them.
//
// The remaining numeric columns are passed through as the raw cell text and
// are not validated here.
type TripRecord struct {
	Medallion        string
	HackLicense      string
	PickupDatetime   sql.NullTime
	DropoffDatetime  sql.NullTime
	TripTimeInSecs   sql.NullString
	TripDistance     float64
	PickupLongitude  sql.NullString
	PickupLatitude   sql.NullString
	DropoffLongitude sql.NullString
	DropoffLatitude  sql.NullString
	PaymentType      string
	FareAmount       float64
	Surcharge        sql.NullString
	MTATax           sql.NullString
	TipAmount        sql.NullString
	TollsAmount      sql.NullString
	TotalAmount      sql.NullString
}

// CleaningStats counts substitutions made while cleaning a table.
type CleaningStats struct {
	DefaultedMedallion   int
	DefaultedHackLicense int
	DefaultedPaymentType int
	DefaultedFareAmount  int
	DefaultedDistance    int
	NullPickup           int
	NullDropoff          int
}

// Table is the in-memory result of loading one trip file.
type Table struct {
	// Source is the path the table was loaded from.
	Source string

	// Checksum is the xxhash64 hex digest of the decompressed payload.
	Checksum string

	Records []TripRecord
	Stats   CleaningStats
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Driver selects the destination database dialect.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// ParseDriver converts a user-supplied driver name.
func ParseDriver(s string) (Driver, error) {
	switch s {
	case "", "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	default:
		return "", fmt.Errorf("unknown driver %q (expected postgres or mysql): %w", s, ErrInvalidConfig)
	}
}

// DefaultPort returns the conventional server port for the driver.
func (d Driver) DefaultPort() int {
	if d == DriverMySQL {
		return DefaultMySQLPort
	}
	return DefaultPostgresPort
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod converts the --auth flag value.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra":
		return AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Driver   Driver
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	AppName        string
	ConnectTimeout time.Duration

	AWSRegion      string
	GoogleInstance string

	// If tenant, client and secret are all set, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain applies.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadConfig contains every parameter of one load run.
type LoadConfig struct {
	FilePath    string
	Table       string
	CreateTable bool
	Connection  ConnectionConfig

	// Timeout bounds the whole run. Zero leaves the driver defaults in charge.
	Timeout time.Duration
	Verbose bool
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)?$`)

// ValidTableName reports whether name is a plain or schema-qualified identifier.
func ValidTableName(name string) bool {
	return identifierPattern.MatchString(name)
}

// Validate checks that the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.FilePath == "" {
		errs = append(errs, fmt.Errorf("FilePath is required: %w", ErrInvalidConfig))
	}

	if !ValidTableName(c.Table) {
		errs = append(errs, fmt.Errorf("table name %q is not a valid identifier: %w", c.Table, ErrInvalidConfig))
	}

	if c.Connection.Driver != DriverPostgres && c.Connection.Driver != DriverMySQL {
		errs = append(errs, fmt.Errorf("driver %q is not supported: %w", c.Connection.Driver, ErrInvalidConfig))
	}

	if c.Connection.Database == "" {
		errs = append(errs, fmt.Errorf("database name is required: %w", ErrInvalidConfig))
	}

	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range: %w", c.Connection.Port, ErrInvalidConfig))
	}

	if !c.Connection.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v: %w", c.Connection.AuthMethod, ErrUnsupportedAuthMethod))
	}

	if c.Connection.Driver == DriverMySQL && c.Connection.AuthMethod != AuthMethodStandard {
		errs = append(errs, fmt.Errorf("%s authentication is only available for postgres: %w", c.Connection.AuthMethod, ErrUnsupportedAuthMethod))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

package db

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vvka-141/taxiload/internal/config"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// ConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL client flag conventions (-h, -p, -U, -d).
//
// Password is not a flag. It comes from $TAXILOAD_PASSWORD, then
// $PGPASSWORD or $MYSQL_PWD depending on the driver, then the prompt.
type ConnFlags struct {
	Driver         string
	Host           string
	Port           int
	Username       string
	Database       string
	SSLMode        string
	Auth           string
	ConnectTimeout time.Duration

	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
}

// EnvVars holds the environment variables that feed connection resolution.
type EnvVars struct {
	TAXILOAD_DRIVER   string
	TAXILOAD_HOST     string
	TAXILOAD_PORT     string
	TAXILOAD_USER     string
	TAXILOAD_DATABASE string
	TAXILOAD_PASSWORD string

	// PostgreSQL standard variables, see libpq-envars.
	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	// MySQL client variables.
	MYSQL_HOST     string
	MYSQL_TCP_PORT string
	MYSQL_PWD      string

	AWS_REGION          string
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		TAXILOAD_DRIVER:     os.Getenv("TAXILOAD_DRIVER"),
		TAXILOAD_HOST:       os.Getenv("TAXILOAD_HOST"),
		TAXILOAD_PORT:       os.Getenv("TAXILOAD_PORT"),
		TAXILOAD_USER:       os.Getenv("TAXILOAD_USER"),
		TAXILOAD_DATABASE:   os.Getenv("TAXILOAD_DATABASE"),
		TAXILOAD_PASSWORD:   os.Getenv("TAXILOAD_PASSWORD"),
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		MYSQL_HOST:          os.Getenv("MYSQL_HOST"),
		MYSQL_TCP_PORT:      os.Getenv("MYSQL_TCP_PORT"),
		MYSQL_PWD:           os.Getenv("MYSQL_PWD"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnection builds a ConnectionConfig. Each value is taken from the
// first source that provides it:
//
//  1. CLI flag
//  2. TAXILOAD_* environment variable
//  3. driver environment variable (PG* for postgres, MYSQL_* for mysql)
//  4. taxiload.yaml
//  5. default (localhost, root, taxi_database, driver port)
//
// The password may be empty; the caller decides whether to prompt for it.
func ResolveConnection(flags *ConnFlags, env *EnvVars, file *config.ConnectionConfig) (*taxiload.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if env == nil {
		env = &EnvVars{}
	}
	if file == nil {
		file = &config.ConnectionConfig{}
	}

	driver, err := taxiload.ParseDriver(firstNonEmpty(flags.Driver, env.TAXILOAD_DRIVER, file.Driver))
	if err != nil {
		return nil, err
	}
	mysql := driver == taxiload.DriverMySQL

	cfg := &taxiload.ConnectionConfig{Driver: driver}

	var driverHost, driverPort, driverUser, driverDatabase, driverPassword, driverSSLMode string
	if mysql {
		driverHost, driverPort, driverPassword = env.MYSQL_HOST, env.MYSQL_TCP_PORT, env.MYSQL_PWD
	} else {
		driverHost, driverPort, driverPassword = env.PGHOST, env.PGPORT, env.PGPASSWORD
		driverUser, driverDatabase, driverSSLMode = env.PGUSER, env.PGDATABASE, env.PGSSLMODE
	}

	cfg.Host = firstNonEmpty(flags.Host, env.TAXILOAD_HOST, driverHost, file.Host, taxiload.DefaultHost)
	cfg.Username = firstNonEmpty(flags.Username, env.TAXILOAD_USER, driverUser, file.Username, taxiload.DefaultUser)
	cfg.Database = firstNonEmpty(flags.Database, env.TAXILOAD_DATABASE, driverDatabase, file.Database, taxiload.DefaultDatabase)
	cfg.Password = firstNonEmpty(env.TAXILOAD_PASSWORD, driverPassword)

	cfg.SSLMode = firstNonEmpty(flags.SSLMode, driverSSLMode, file.SSLMode)
	if cfg.SSLMode == "" && !mysql {
		cfg.SSLMode = "prefer"
	}

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.TAXILOAD_PORT != "":
		if cfg.Port, err = parsePort("TAXILOAD_PORT", env.TAXILOAD_PORT); err != nil {
			return nil, err
		}
	case driverPort != "":
		name := "PGPORT"
		if mysql {
			name = "MYSQL_TCP_PORT"
		}
		if cfg.Port, err = parsePort(name, driverPort); err != nil {
			return nil, err
		}
	case file.Port != 0:
		cfg.Port = file.Port
	default:
		cfg.Port = driver.DefaultPort()
	}

	cfg.ConnectTimeout = flags.ConnectTimeout
	if cfg.ConnectTimeout == 0 {
		d, err := file.ParseConnectTimeout()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", taxiload.ErrInvalidConfig, err)
		}
		cfg.ConnectTimeout = d
	}

	if err := resolveAuth(cfg, flags, env, file); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveAuth selects the authentication method and attaches the cloud
// parameters it needs. Without an explicit method, Azure credentials in flags
// or environment switch a postgres connection to Entra ID.
func resolveAuth(cfg *taxiload.ConnectionConfig, flags *ConnFlags, env *EnvVars, file *config.ConnectionConfig) error {
	requested := firstNonEmpty(flags.Auth, file.AuthMethod)
	method, err := taxiload.ParseAuthMethod(requested)
	if err != nil {
		return err
	}

	cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, file.AWSRegion)
	cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, file.GoogleInstance)
	cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, file.AzureTenantID)
	cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, file.AzureClientID)
	// Client secret only comes from the environment
	cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET

	if requested == "" && cfg.Driver == taxiload.DriverPostgres && (cfg.AzureTenantID != "" || cfg.AzureClientID != "") {
		method = taxiload.AuthMethodAzureEntraID
	}

	cfg.AuthMethod = method
	return nil
}

func parsePort(name, value string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid $%s value '%s': must be an integer: %w", name, value, taxiload.ErrInvalidConfig)
	}
	return port, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

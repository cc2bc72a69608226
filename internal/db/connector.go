package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// StandardConnector implements the Connector interface for standard
// username/password authentication.
type StandardConnector struct {
	config *taxiload.ConnectionConfig
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *taxiload.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config}
}

// Connect opens a single connection using the configured password.
func (c *StandardConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	return connectPostgres(ctx, c.config)
}

// connectPostgres opens and pings one connection for cfg.
func connectPostgres(ctx context.Context, cfg *taxiload.ConnectionConfig) (*pgx.Conn, error) {
	connConfig, err := pgx.ParseConfig(BuildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cfg)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(context.Background())
		return nil, wrapConnectionError(err, cfg)
	}

	return conn, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *taxiload.ConnectionConfig) (taxiload.Connector, error) {
	switch config.AuthMethod {
	case taxiload.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case taxiload.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case taxiload.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case taxiload.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, taxiload.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
// The result always matches taxiload.ErrConnection.
func wrapConnectionError(err error, cfg *taxiload.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	passwordEnv := "$PGPASSWORD"
	server := "PostgreSQL"
	healthCheck := fmt.Sprintf("pg_isready -h %s -p %d", cfg.Host, cfg.Port)
	if cfg.Driver == taxiload.DriverMySQL {
		passwordEnv = "$MYSQL_PWD"
		server = "MySQL"
		healthCheck = fmt.Sprintf("mysqladmin -h %s -P %d ping", cfg.Host, cfg.Port)
	}

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - %s is not running (check: %s)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, taxiload.ErrConnection, addr, server, healthCheck, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, taxiload.ErrConnection, cfg.Host, err)

	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "access denied"):
		return fmt.Errorf(`%w: authentication failed for user "%s" on database "%s"

Possible causes:
  - Wrong password (check $TAXILOAD_PASSWORD or %s)
  - Wrong username
  - User does not have access to the database

Original error: %w`, taxiload.ErrConnection, cfg.Username, cfg.Database, passwordEnv, err)

	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "unknown database"):
		return fmt.Errorf(`%w: database "%s" does not exist

Create it first, or point --database at an existing one.

Original error: %w`, taxiload.ErrConnection, cfg.Database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - --connect-timeout is too short

Original error: %w`, taxiload.ErrConnection, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)

Original error: %w`, taxiload.ErrConnection, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`%w: too many connections to database "%s"

The server's connection limit is reached. Retry once other clients disconnect.

Original error: %w`, taxiload.ErrConnection, cfg.Database, err)

	default:
		return fmt.Errorf("%w: failed to connect to database: %w", taxiload.ErrConnection, err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *taxiload.ConnectionConfig) (taxiload.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taxiload.ErrInvalidConfig, err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *taxiload.ConnectionConfig) (taxiload.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", taxiload.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", taxiload.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If explicit credentials (tenant, client, secret) are provided, uses Service Principal auth.
// Otherwise, falls back to DefaultAzureCredential chain.
func newAzureConnector(config *taxiload.ConnectionConfig) (taxiload.Connector, error) {
	tokenProvider, err := NewAzureTokenProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taxiload.ErrInvalidConfig, err)
	}
	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}

package testinfra

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequirePostgres returns connection parameters for a test PostgreSQL server.
// Priority: TAXILOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func RequirePostgres(t *testing.T) *taxiload.ConnectionConfig {
	t.Helper()
	SkipIfShort(t)

	connString := os.Getenv("TAXILOAD_TEST_CONN")
	if connString == "" {
		var err error
		connString, err = getOrStartTestContainer()
		if err != nil {
			t.Skipf("TAXILOAD_TEST_CONN not set and Docker unavailable: %v", err)
		}
	}

	cfg, err := PostgresConfigFromURL(connString)
	if err != nil {
		t.Fatalf("invalid test connection string: %v", err)
	}
	return cfg
}

// RequireMySQL returns connection parameters from TAXILOAD_TEST_MYSQL_DSN
// (go-sql-driver DSN format) or skips the test.
func RequireMySQL(t *testing.T) *taxiload.ConnectionConfig {
	t.Helper()
	SkipIfShort(t)

	dsn := os.Getenv("TAXILOAD_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TAXILOAD_TEST_MYSQL_DSN not set")
	}

	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("invalid TAXILOAD_TEST_MYSQL_DSN: %v", err)
	}
	host, portStr, err := net.SplitHostPort(mc.Addr)
	if err != nil {
		t.Fatalf("invalid TAXILOAD_TEST_MYSQL_DSN address %q: %v", mc.Addr, err)
	}
	port, _ := strconv.Atoi(portStr)

	return &taxiload.ConnectionConfig{
		Driver:   taxiload.DriverMySQL,
		Host:     host,
		Port:     port,
		Database: mc.DBName,
		Username: mc.User,
		Password: mc.Passwd,
	}
}

// PostgresConfigFromURL converts a libpq connection string into a ConnectionConfig.
func PostgresConfigFromURL(connString string) (*taxiload.ConnectionConfig, error) {
	pc, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", connString, err)
	}
	sslMode := "disable"
	if pc.TLSConfig != nil {
		sslMode = "require"
	}
	return &taxiload.ConnectionConfig{
		Driver:   taxiload.DriverPostgres,
		Host:     pc.Host,
		Port:     int(pc.Port),
		Database: pc.Database,
		Username: pc.User,
		Password: pc.Password,
		SSLMode:  sslMode,
	}, nil
}

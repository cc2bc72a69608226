//go:build conntest || azure

// Package conntest exercises connection resolution and the connector family
// against real servers. Run with -tags conntest (Docker or TAXILOAD_TEST_CONN)
// or -tags azure (a provisioned Azure Database for PostgreSQL).
package conntest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func connectWithConfig(t *testing.T, config *taxiload.ConnectionConfig) *pgx.Conn {
	t.Helper()

	connector, err := db.NewConnector(config)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := connector.Connect(ctx)
	require.NoError(t, err, "connect to %s", db.DescribeTarget(config))
	t.Cleanup(func() { conn.Close(context.Background()) })
	return conn
}

func currentUser(t *testing.T, conn *pgx.Conn) string {
	t.Helper()
	var user string
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT current_user").Scan(&user))
	return user
}

func applicationName(t *testing.T, conn *pgx.Conn) string {
	t.Helper()
	var name string
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT current_setting('application_name')").Scan(&name))
	return name
}

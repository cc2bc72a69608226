//go:build conntest

package conntest

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/taxiload/internal/config"
	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/internal/testinfra"
)

func TestPrecedence_FlagOverridesEnv(t *testing.T) {
	target := testinfra.RequirePostgres(t)

	t.Setenv("PGHOST", "unreachable.invalid")
	t.Setenv("PGUSER", "nobody")

	resolved, err := db.ResolveConnection(&db.ConnFlags{
		Host:     target.Host,
		Port:     target.Port,
		Username: target.Username,
		Database: target.Database,
		SSLMode:  "disable",
	}, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)
	assert.Equal(t, target.Host, resolved.Host)

	resolved.Password = target.Password
	connectWithConfig(t, resolved)
}

func TestPrecedence_TaxiloadEnvOverridesPGEnv(t *testing.T) {
	target := testinfra.RequirePostgres(t)

	t.Setenv("PGPASSWORD", "wrong-password-from-pg-env")
	t.Setenv("TAXILOAD_PASSWORD", target.Password)
	t.Setenv("TAXILOAD_HOST", target.Host)
	t.Setenv("TAXILOAD_PORT", strconv.Itoa(target.Port))
	t.Setenv("TAXILOAD_USER", target.Username)
	t.Setenv("TAXILOAD_DATABASE", target.Database)
	t.Setenv("PGSSLMODE", "disable")

	resolved, err := db.ResolveConnection(nil, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)
	assert.Equal(t, target.Password, resolved.Password)

	connectWithConfig(t, resolved)
}

func TestPrecedence_FileFallback(t *testing.T) {
	target := testinfra.RequirePostgres(t)
	for _, name := range []string{"TAXILOAD_HOST", "TAXILOAD_PORT", "TAXILOAD_USER", "TAXILOAD_DATABASE", "PGHOST", "PGPORT", "PGUSER", "PGDATABASE", "PGSSLMODE"} {
		t.Setenv(name, "")
	}
	t.Setenv("TAXILOAD_PASSWORD", target.Password)

	file := &config.ConnectionConfig{
		Host:           target.Host,
		Port:           target.Port,
		Username:       target.Username,
		Database:       target.Database,
		SSLMode:        "disable",
		ConnectTimeout: "10s",
	}

	resolved, err := db.ResolveConnection(nil, db.LoadFromEnvironment(), file)
	require.NoError(t, err)
	assert.Equal(t, target.Port, resolved.Port)

	connectWithConfig(t, resolved)
}

package writer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxiload/internal/logging"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

type failingConnector struct {
	calls int
}

func (c *failingConnector) Connect(ctx context.Context) (*pgx.Conn, error) {
	c.calls++
	return nil, fmt.Errorf("%w: dial tcp: connection refused", taxiload.ErrConnection)
}

func failingOpen(calls *int) OpenFunc {
	return func(ctx context.Context, cfg *taxiload.ConnectionConfig) (*sqlx.DB, error) {
		*calls++
		return nil, fmt.Errorf("%w: access denied", taxiload.ErrConnection)
	}
}

func sampleTable() *taxiload.Table {
	return &taxiload.Table{Records: []taxiload.TripRecord{{Medallion: "M", HackLicense: "H", PaymentType: "CSH"}}}
}

func TestNew_SelectsByDriver(t *testing.T) {
	logger := logging.NewNullLogger()
	connector := &failingConnector{}
	factory := func(cfg *taxiload.ConnectionConfig) (taxiload.Connector, error) { return connector, nil }
	var opens int

	pgCfg := &taxiload.LoadConfig{Connection: taxiload.ConnectionConfig{Driver: taxiload.DriverPostgres}}
	w, err := New(pgCfg, factory, failingOpen(&opens), logger)
	require.NoError(t, err)
	assert.IsType(t, &PostgresWriter{}, w)

	myCfg := &taxiload.LoadConfig{Connection: taxiload.ConnectionConfig{Driver: taxiload.DriverMySQL}}
	w, err = New(myCfg, factory, failingOpen(&opens), logger)
	require.NoError(t, err)
	assert.IsType(t, &MySQLWriter{}, w)
}

func TestNew_Errors(t *testing.T) {
	logger := logging.NewNullLogger()
	factoryErr := errors.New("no credentials")
	factory := func(cfg *taxiload.ConnectionConfig) (taxiload.Connector, error) { return nil, factoryErr }
	var opens int

	_, err := New(&taxiload.LoadConfig{Connection: taxiload.ConnectionConfig{Driver: taxiload.DriverPostgres}}, factory, failingOpen(&opens), logger)
	assert.ErrorIs(t, err, factoryErr)

	_, err = New(&taxiload.LoadConfig{Connection: taxiload.ConnectionConfig{Driver: "oracle"}}, factory, failingOpen(&opens), logger)
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)

	_, err = New(&taxiload.LoadConfig{Connection: taxiload.ConnectionConfig{
		Driver:     taxiload.DriverMySQL,
		AuthMethod: taxiload.AuthMethodAWSIAM,
	}}, factory, failingOpen(&opens), logger)
	assert.ErrorIs(t, err, taxiload.ErrUnsupportedAuthMethod)
}

func TestPostgresWriter_ConnectionFailure(t *testing.T) {
	connector := &failingConnector{}
	w := NewPostgresWriter(connector, logging.NewNullLogger(), false)

	n, err := w.Write(context.Background(), sampleTable(), taxiload.DefaultTable)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, taxiload.ErrConnection)
	assert.Equal(t, 1, connector.calls)
}

func TestPostgresWriter_InvalidTableNameSkipsConnect(t *testing.T) {
	connector := &failingConnector{}
	w := NewPostgresWriter(connector, logging.NewNullLogger(), false)

	_, err := w.Write(context.Background(), sampleTable(), "trips; DROP TABLE trips")
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
	assert.Zero(t, connector.calls)
}

func TestMySQLWriter_ConnectionFailure(t *testing.T) {
	var opens int
	w := NewMySQLWriter(&taxiload.ConnectionConfig{Driver: taxiload.DriverMySQL}, failingOpen(&opens), logging.NewNullLogger(), false)

	n, err := w.Write(context.Background(), sampleTable(), taxiload.DefaultTable)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, taxiload.ErrConnection)
	assert.Equal(t, 1, opens)

	_, err = w.Write(context.Background(), sampleTable(), "bad name")
	assert.ErrorIs(t, err, taxiload.ErrInvalidConfig)
	assert.Equal(t, 1, opens)
}

func TestInsertError_Wraps(t *testing.T) {
	cause := errors.New("broken pipe")
	err := insertError("row 3", cause)
	assert.ErrorIs(t, err, taxiload.ErrInsert)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "row 3")

	err = mysqlInsertError("commit", cause)
	assert.ErrorIs(t, err, taxiload.ErrInsert)
	assert.ErrorIs(t, err, cause)
}

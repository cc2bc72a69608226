package writer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taxiload/internal/db"
	"github.com/vvka-141/taxiload/internal/logging"
	"github.com/vvka-141/taxiload/internal/testinfra"
	"github.com/vvka-141/taxiload/internal/trips"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func loadFixture(t *testing.T, name string) *taxiload.Table {
	t.Helper()
	table, err := trips.NewLoader(logging.NewNullLogger()).Load(context.Background(), filepath.Join("..", "trips", "testdata", name))
	require.NoError(t, err)
	return table
}

func openTestConn(t *testing.T, cfg *taxiload.ConnectionConfig) *pgx.Conn {
	t.Helper()
	conn, err := db.NewStandardConnector(cfg).Connect(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(context.Background()) })
	return conn
}

func countRows(t *testing.T, conn *pgx.Conn, table string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), "SELECT count(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n))
	return n
}

func TestPostgresWriter_InsertsCleanedTable(t *testing.T) {
	cfg := testinfra.RequirePostgres(t)
	ctx := context.Background()
	tableName := "trips_roundtrip"

	conn := openTestConn(t, cfg)
	_, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+tableName)
	require.NoError(t, err)

	w := NewPostgresWriter(db.NewStandardConnector(cfg), logging.NewNullLogger(), true)
	n, err := w.Write(ctx, loadFixture(t, "three_trips.csv.bz2"), tableName)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 3, countRows(t, conn, tableName))

	var (
		medallion, hack, payment string
		pickup, dropoff          time.Time
		fare, distance           float64
		tripTime                 *int
		pickupLon                *float64
	)
	err = conn.QueryRow(ctx, `SELECT medallion, hack_license, payment_type, pickup_datetime, dropoff_datetime,
		fare_amount, trip_distance, trip_time_in_secs, pickup_longitude
		FROM trips_roundtrip WHERE total_amount = 5.5`).
		Scan(&medallion, &hack, &payment, &pickup, &dropoff, &fare, &distance, &tripTime, &pickupLon)
	require.NoError(t, err)

	assert.Equal(t, "UNKNOWN", medallion)
	assert.Equal(t, "UNKNOWN", hack)
	assert.Equal(t, "UNK", payment)
	assert.Equal(t, time.Date(2013, 1, 1, 12, 2, 0, 0, time.UTC), pickup)
	assert.Equal(t, time.Date(2013, 1, 6, 0, 22, 0, 0, time.UTC), dropoff)
	assert.Zero(t, fare)
	assert.Zero(t, distance)
	require.NotNil(t, tripTime)
	assert.Equal(t, 259, *tripTime)
	require.NotNil(t, pickupLon)
	assert.InDelta(t, -73.955925, *pickupLon, 1e-9)

	var nullLatitude *float64
	require.NoError(t, conn.QueryRow(ctx,
		`SELECT dropoff_latitude FROM trips_roundtrip WHERE medallion = '0BD7C8F5BA12B88E0B67BED28BEA73D8'`).Scan(&nullLatitude))
	assert.Nil(t, nullLatitude)
}

func TestPostgresWriter_SingleTripIntoDefaultTable(t *testing.T) {
	cfg := testinfra.RequirePostgres(t)
	ctx := context.Background()

	conn := openTestConn(t, cfg)
	_, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+taxiload.DefaultTable)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Exec(context.Background(), "DROP TABLE IF EXISTS "+taxiload.DefaultTable) }) //nolint:errcheck

	w := NewPostgresWriter(db.NewStandardConnector(cfg), logging.NewNullLogger(), true)
	n, err := w.Write(ctx, loadFixture(t, "single_trip.csv.bz2"), taxiload.DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var (
		medallion string
		pickup    string
		fare      float64
	)
	require.NoError(t, conn.QueryRow(ctx,
		"SELECT medallion, to_char(pickup_datetime, 'YYYY-MM-DD HH24:MI:SS'), fare_amount FROM "+taxiload.DefaultTable).
		Scan(&medallion, &pickup, &fare))
	assert.Equal(t, "MED1", medallion)
	assert.Equal(t, "2013-01-01 00:00:00", pickup)
	assert.Equal(t, 10.0, fare)
}

func TestPostgresWriter_RollsBackOnBadRow(t *testing.T) {
	cfg := testinfra.RequirePostgres(t)
	ctx := context.Background()
	tableName := "trips_rollback"

	conn := openTestConn(t, cfg)
	_, err := conn.Exec(ctx, "DROP TABLE IF EXISTS "+tableName)
	require.NoError(t, err)
	ddl, err := CreateTableStatement(taxiload.DriverPostgres, tableName)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, ddl)
	require.NoError(t, err)

	w := NewPostgresWriter(db.NewStandardConnector(cfg), logging.NewNullLogger(), false)
	n, err := w.Write(ctx, loadFixture(t, "bad_passthrough.csv.bz2"), tableName)

	require.Error(t, err)
	assert.ErrorIs(t, err, taxiload.ErrInsert)
	assert.Contains(t, err.Error(), "SQLSTATE 22P02")
	assert.Zero(t, n)
	assert.Equal(t, 0, countRows(t, conn, tableName), "no row of a failed load is committed")
}

func TestPostgresWriter_MissingTable(t *testing.T) {
	cfg := testinfra.RequirePostgres(t)

	w := NewPostgresWriter(db.NewStandardConnector(cfg), logging.NewNullLogger(), false)
	_, err := w.Write(context.Background(), loadFixture(t, "single_trip.csv.bz2"), "trips_never_created")

	assert.ErrorIs(t, err, taxiload.ErrInsert)
	assert.Contains(t, err.Error(), "SQLSTATE 42P01")
}

func TestPostgresWriter_CancelledContext(t *testing.T) {
	cfg := testinfra.RequirePostgres(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewPostgresWriter(db.NewStandardConnector(cfg), logging.NewNullLogger(), true)
	n, err := w.Write(ctx, loadFixture(t, "single_trip.csv.bz2"), "trips_cancelled")
	assert.Error(t, err)
	assert.Zero(t, n)
}

package db

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// OpenMySQL opens a MySQL handle limited to one connection and verifies it
// with a ping. Only standard password authentication is supported.
func OpenMySQL(ctx context.Context, config *taxiload.ConnectionConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", BuildMySQLDSN(config))
	if err != nil {
		return nil, wrapConnectionError(err, config)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapConnectionError(err, config)
	}
	return db, nil
}

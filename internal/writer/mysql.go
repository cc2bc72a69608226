package writer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// OpenFunc opens the MySQL handle for a write.
type OpenFunc func(ctx context.Context, cfg *taxiload.ConnectionConfig) (*sqlx.DB, error)

// MySQLWriter inserts a table through sqlx, executing one prepared statement
// per row inside one transaction.
type MySQLWriter struct {
	config      *taxiload.ConnectionConfig
	open        OpenFunc
	logger      taxiload.Logger
	createTable bool
}

// NewMySQLWriter creates a MySQLWriter.
func NewMySQLWriter(config *taxiload.ConnectionConfig, open OpenFunc, logger taxiload.Logger, createTable bool) *MySQLWriter {
	return &MySQLWriter{config: config, open: open, logger: logger, createTable: createTable}
}

// Write implements taxiload.Writer.
func (w *MySQLWriter) Write(ctx context.Context, table *taxiload.Table, tableName string) (int64, error) {
	stmtSQL, err := InsertStatement(taxiload.DriverMySQL, tableName)
	if err != nil {
		return 0, err
	}

	db, err := w.open(ctx, w.config)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			w.logger.Error("Error closing connection: %v", err)
		}
	}()

	// MySQL DDL commits implicitly, so the table is created before the transaction
	if w.createTable {
		ddl, err := CreateTableStatement(taxiload.DriverMySQL, tableName)
		if err != nil {
			return 0, err
		}
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return 0, mysqlInsertError("create table "+tableName, err)
		}
		w.logger.Verbose("Ensured table %s exists", tableName)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, mysqlInsertError("begin transaction", err)
	}

	inserted, err := w.insertAll(ctx, tx, stmtSQL, table)
	if err != nil {
		w.rollback(tx)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		w.rollback(tx)
		return 0, mysqlInsertError("commit", err)
	}

	return inserted, nil
}

func (w *MySQLWriter) insertAll(ctx context.Context, tx *sqlx.Tx, stmtSQL string, table *taxiload.Table) (int64, error) {
	stmt, err := tx.PreparexContext(ctx, stmtSQL)
	if err != nil {
		return 0, mysqlInsertError("prepare", err)
	}
	defer stmt.Close()

	w.logger.Verbose("Executing prepared insert for %d rows", table.Len())

	var inserted int64
	for i := range table.Records {
		res, err := stmt.ExecContext(ctx, tuple(&table.Records[i])...)
		if err != nil {
			return 0, mysqlInsertError(fmt.Sprintf("row %d", i+1), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, mysqlInsertError(fmt.Sprintf("row %d", i+1), err)
		}
		inserted += n
	}
	return inserted, nil
}

func (w *MySQLWriter) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		w.logger.Error("Error rolling back transaction: %v", err)
		return
	}
	w.logger.Verbose("Transaction rolled back")
}

// mysqlInsertError wraps err as an ErrInsert, adding the server error number
// when available.
func mysqlInsertError(stage string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return fmt.Errorf("%w: %s: MySQL error %d: %w", taxiload.ErrInsert, stage, myErr.Number, err)
	}
	return fmt.Errorf("%w: %s: %w", taxiload.ErrInsert, stage, err)
}

var _ taxiload.Writer = (*MySQLWriter)(nil)

package writer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// PostgresWriter inserts a table through one pgx connection. All rows are
// queued in a single batch inside one transaction.
type PostgresWriter struct {
	connector   taxiload.Connector
	logger      taxiload.Logger
	createTable bool
}

// NewPostgresWriter creates a PostgresWriter. With createTable set, the
// destination table is created inside the same transaction when missing.
func NewPostgresWriter(connector taxiload.Connector, logger taxiload.Logger, createTable bool) *PostgresWriter {
	return &PostgresWriter{connector: connector, logger: logger, createTable: createTable}
}

// Write implements taxiload.Writer.
func (w *PostgresWriter) Write(ctx context.Context, table *taxiload.Table, tableName string) (int64, error) {
	stmt, err := InsertStatement(taxiload.DriverPostgres, tableName)
	if err != nil {
		return 0, err
	}

	conn, err := w.connector.Connect(ctx)
	if err != nil {
		return 0, err
	}
	defer w.release(conn)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, insertError("begin transaction", err)
	}

	if w.createTable {
		ddl, err := CreateTableStatement(taxiload.DriverPostgres, tableName)
		if err != nil {
			w.rollback(tx)
			return 0, err
		}
		if _, err := tx.Exec(ctx, ddl); err != nil {
			w.rollback(tx)
			return 0, insertError("create table "+tableName, err)
		}
		w.logger.Verbose("Ensured table %s exists", tableName)
	}

	batch := &pgx.Batch{}
	for i := range table.Records {
		batch.Queue(stmt, tuple(&table.Records[i])...)
	}
	w.logger.Verbose("Sending %d rows in one batch", batch.Len())

	inserted, err := execBatch(ctx, tx, batch)
	if err != nil {
		w.rollback(tx)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		w.rollback(tx)
		return 0, insertError("commit", err)
	}

	return inserted, nil
}

// execBatch sends the batch and reads every result. The results must be
// closed before the transaction can be used again.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int64, error) {
	results := tx.SendBatch(ctx, batch)

	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, insertError(fmt.Sprintf("row %d", i+1), err)
		}
		inserted += tag.RowsAffected()
	}

	if err := results.Close(); err != nil {
		return 0, insertError("batch", err)
	}
	return inserted, nil
}

func (w *PostgresWriter) rollback(tx pgx.Tx) {
	// The caller's context may already be cancelled
	if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		w.logger.Error("Error rolling back transaction: %v", err)
		return
	}
	w.logger.Verbose("Transaction rolled back")
}

func (w *PostgresWriter) release(conn *pgx.Conn) {
	if err := conn.Close(context.Background()); err != nil {
		w.logger.Error("Error closing connection: %v", err)
	}
	if closer, ok := w.connector.(io.Closer); ok {
		closer.Close()
	}
}

// insertError wraps err as an ErrInsert, adding the SQLSTATE when the server
// reported one.
func insertError(stage string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: SQLSTATE %s: %w", taxiload.ErrInsert, stage, pgErr.Code, err)
	}
	return fmt.Errorf("%w: %s: %w", taxiload.ErrInsert, stage, err)
}

var _ taxiload.Writer = (*PostgresWriter)(nil)

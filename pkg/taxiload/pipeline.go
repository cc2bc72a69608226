package taxiload

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Loader reads one trip archive into memory.
type Loader interface {
	// Load decompresses, parses and cleans the file at path.
	// Errors wrap ErrDecompression or ErrParse.
	Load(ctx context.Context, path string) (*Table, error)
}

// Writer persists a cleaned table.
type Writer interface {
	// Write inserts every record of table into tableName inside one transaction
	// and returns the number of committed rows. On error nothing is committed
	// and the error wraps ErrConnection or ErrInsert.
	Write(ctx context.Context, table *Table, tableName string) (int64, error)
}

// Connector establishes the single PostgreSQL connection a Writer uses.
// Different implementations handle the authentication methods
// (standard credentials, cloud IAM tokens, Cloud SQL dialer).
type Connector interface {
	// Connect opens a connection. The caller closes it when done.
	Connect(ctx context.Context) (*pgx.Conn, error)
}

// ConnectorFactory builds the Connector for a resolved configuration.
type ConnectorFactory func(cfg *ConnectionConfig) (Connector, error)

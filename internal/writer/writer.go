// Package writer persists cleaned trip tables with an all-or-nothing bulk insert.
package writer

import (
	"fmt"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// New returns the Writer for cfg.Driver. PostgreSQL connections come from
// connectors built by factory; MySQL handles are opened with open.
func New(cfg *taxiload.LoadConfig, factory taxiload.ConnectorFactory, open OpenFunc, logger taxiload.Logger) (taxiload.Writer, error) {
	conn := &cfg.Connection
	switch conn.Driver {
	case taxiload.DriverPostgres:
		connector, err := factory(conn)
		if err != nil {
			return nil, err
		}
		return NewPostgresWriter(connector, logger, cfg.CreateTable), nil
	case taxiload.DriverMySQL:
		if conn.AuthMethod != taxiload.AuthMethodStandard {
			return nil, fmt.Errorf("%s authentication is only available for postgres: %w", conn.AuthMethod, taxiload.ErrUnsupportedAuthMethod)
		}
		return NewMySQLWriter(conn, open, logger, cfg.CreateTable), nil
	default:
		return nil, fmt.Errorf("driver %q is not supported: %w", conn.Driver, taxiload.ErrInvalidConfig)
	}
}

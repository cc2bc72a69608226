package writer

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// QuoteTable validates name and quotes every part with the dialect's
// identifier quoting.
func QuoteTable(driver taxiload.Driver, name string) (string, error) {
	if !taxiload.ValidTableName(name) {
		return "", fmt.Errorf("table name %q is not a valid identifier: %w", name, taxiload.ErrInvalidConfig)
	}
	parts := strings.Split(name, ".")
	if driver == taxiload.DriverMySQL {
		for i, p := range parts {
			parts[i] = "`" + p + "`"
		}
		return strings.Join(parts, "."), nil
	}
	return pgx.Identifier(parts).Sanitize(), nil
}

// InsertStatement returns the single-row INSERT used for every record.
func InsertStatement(driver taxiload.Driver, table string) (string, error) {
	quoted, err := QuoteTable(driver, table)
	if err != nil {
		return "", err
	}

	placeholders := make([]string, len(taxiload.Columns))
	for i := range placeholders {
		if driver == taxiload.DriverMySQL {
			placeholders[i] = "?"
		} else {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(taxiload.Columns, ", "), strings.Join(placeholders, ", ")), nil
}

// columnTypes maps each column to its DDL type per driver.
var columnTypes = map[string][2]string{
	"medallion":         {"VARCHAR(64)", "VARCHAR(64)"},
	"hack_license":      {"VARCHAR(64)", "VARCHAR(64)"},
	"pickup_datetime":   {"TIMESTAMP", "DATETIME"},
	"dropoff_datetime":  {"TIMESTAMP", "DATETIME"},
	"trip_time_in_secs": {"INTEGER", "INT"},
	"trip_distance":     {"DOUBLE PRECISION", "DOUBLE"},
	"pickup_longitude":  {"DOUBLE PRECISION", "DOUBLE"},
	"pickup_latitude":   {"DOUBLE PRECISION", "DOUBLE"},
	"dropoff_longitude": {"DOUBLE PRECISION", "DOUBLE"},
	"dropoff_latitude":  {"DOUBLE PRECISION", "DOUBLE"},
	"payment_type":      {"VARCHAR(16)", "VARCHAR(16)"},
	"fare_amount":       {"DOUBLE PRECISION", "DOUBLE"},
	"surcharge":         {"DOUBLE PRECISION", "DOUBLE"},
	"mta_tax":           {"DOUBLE PRECISION", "DOUBLE"},
	"tip_amount":        {"DOUBLE PRECISION", "DOUBLE"},
	"tolls_amount":      {"DOUBLE PRECISION", "DOUBLE"},
	"total_amount":      {"DOUBLE PRECISION", "DOUBLE"},
}

// CreateTableStatement returns CREATE TABLE IF NOT EXISTS DDL for the trip columns.
func CreateTableStatement(driver taxiload.Driver, table string) (string, error) {
	quoted, err := QuoteTable(driver, table)
	if err != nil {
		return "", err
	}

	idx := 0
	if driver == taxiload.DriverMySQL {
		idx = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoted)
	for i, col := range taxiload.Columns {
		fmt.Fprintf(&b, "    %s %s", col, columnTypes[col][idx])
		if i < len(taxiload.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String(), nil
}

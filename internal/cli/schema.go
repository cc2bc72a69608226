package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/taxiload/internal/writer"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

var schemaFlags struct {
	driver string
	table  string
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the CREATE TABLE statement for the trip table",
	Long: `Schema prints the DDL taxiload runs with --create-table, so the table can be
created ahead of time by a DBA.`,
	Example: `  taxiload schema --driver mysql --table staging.trips`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, err := taxiload.ParseDriver(schemaFlags.driver)
		if err != nil {
			return err
		}
		stmt, err := writer.CreateTableStatement(driver, schemaFlags.table)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaFlags.driver, "driver", string(taxiload.DriverPostgres), "Database driver: postgres|mysql")
	schemaCmd.Flags().StringVar(&schemaFlags.table, "table", taxiload.DefaultTable, "Destination table, optionally schema-qualified")
}

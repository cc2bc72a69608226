package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxiload [file.csv.bz2]",
	Short: "Load a bz2 taxi trip CSV into a database table",
	Long: `taxiload decompresses a bz2-archived, headerless taxi trip CSV, cleans it
in memory and inserts every row into one table inside a single transaction.
Either all rows are committed or none are.

Connection values are resolved per value, first match wins:
  flag > $TAXILOAD_* > $PG* / $MYSQL_* > taxiload.yaml > default

Password Authentication:
  Password is NOT accepted as a flag. Use one of:
    1. $TAXILOAD_PASSWORD
    2. $PGPASSWORD (postgres) or $MYSQL_PWD (mysql)
    3. .pgpass (postgres)
    4. the interactive prompt

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments, no input file, prompt cancelled)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  20 - Input missing or not a bz2 archive
  21 - Input is not a 17-column CSV
  22 - Insert failed and was rolled back`,
	Example: `  # Load into taxi_data_table on localhost
  taxiload trip_data_1.csv.bz2

  # Load into MySQL, creating the table first
  taxiload trip_data_1.csv.bz2 --driver mysql -h db.internal -U loader --create-table

  # Load with RDS IAM authentication and JSON logs
  taxiload trip_data_1.csv.bz2 -h trips.abc.eu-west-1.rds.amazonaws.com --auth aws --log-format json`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runLoad,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is --host, as in psql
	rootCmd.PersistentFlags().Bool("help", false, "Help for taxiload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

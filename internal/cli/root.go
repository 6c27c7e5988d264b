package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "txload",
	Short: "Load the fraud detection train/test files into PostgreSQL",
	Long: `txload reads the train and test transaction files, converts their
transaction-time and date-of-birth columns to timestamps, and replaces the
train and test tables in PostgreSQL with the result.

Run without arguments to load data/fraudTrain.csv and data/fraudTest.csv
into train_transactions and test_transactions. Both files are read and
converted before the database is touched; each table is then dropped,
recreated and filled in its own transaction.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  20 - Source file missing, unreadable or malformed
  21 - Date column missing or value not parseable
  22 - Destination table write failed`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runLoad,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// -h is the PostgreSQL host flag, so help gets the long form only
	rootCmd.PersistentFlags().Bool("help", false, "Help for txload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	registerLoadFlags(rootCmd, &loadFlags)
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

package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stockpick",
	Short: "Stock-picking party game over historical prices",
	Long: `stockpick

Players take turns drafting companies from a random catalog, spend an equal
budget on each pick at the start month and race their portfolio values month
by month. The highest value in the end month wins.

Usage:
  go run ./cmd/stockpick [command]

Examples:
  go run ./cmd/stockpick play
  go run ./cmd/stockpick play --game game.yaml --live :8090
  go run ./cmd/stockpick load companies sp500
  go run ./cmd/stockpick load prices api
  go run ./cmd/stockpick scheduler start
  go run ./cmd/stockpick test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

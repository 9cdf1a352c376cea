package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "Replay price history against a strategy and score the result",
	Long: `Backtester simulates a single-asset, long-only portfolio over historical prices.

It provides tools for:
  - Running a strategy over a CSV price series
  - Sweeping moving-average parameters concurrently
  - Journaling trades, equity and run summaries to SQLite or CSV
  - Writing Org-mode reports and equity curve charts`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

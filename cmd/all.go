package cmd

import (
	"dbsmoke/internal/checks"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// allParallel runs independent checks concurrently.
var allParallel bool

// allCmd runs the full smoke suite.
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every smoke check",
	Long: `Runs the full suite: doctor, mlflow, traces, connect, and genai.
Checks that need configuration you have not provided (a cluster id, a
Unity Catalog schema) are skipped rather than failed.

With --parallel, independent checks run concurrently; each check's output
is buffered and printed in order once the suite finishes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChecks(cmd, allParallel, func(d *checks.Deps) []smoke.Check {
			return checks.All(d)
		})
	},
}

func init() {
	allCmd.Flags().BoolVar(&allParallel, "parallel", false,
		"Run independent checks concurrently")
	rootCmd.AddCommand(allCmd)
}

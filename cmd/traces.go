package cmd

import (
	"dbsmoke/internal/checks"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// tracesCmd runs the trace logging check.
var tracesCmd = &cobra.Command{
	Use:   "traces",
	Short: "Smoke-test trace logging and retrieval",
	Long: `Emits traces with nested agent and tool spans against a run in the
configured experiment, then reads them back through the trace search API.
A permission failure on export is reported as such; traces that are merely
not indexed yet only produce a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChecks(cmd, false, func(d *checks.Deps) []smoke.Check {
			return []smoke.Check{checks.Traces(d)}
		})
	},
}

func init() {
	rootCmd.AddCommand(tracesCmd)
}

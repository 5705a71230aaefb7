package cmd

import (
	"dbsmoke/internal/checks"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// genaiCmd runs the agent logging check.
var genaiCmd = &cobra.Command{
	Use:   "genai",
	Short: "Smoke-test agent logging",
	Long: `Exercises the built-in mock agent locally, then logs it to a run: its
params, a test metric, and the packaged agent artifacts. No model serving
endpoint is called.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChecks(cmd, false, func(d *checks.Deps) []smoke.Check {
			return []smoke.Check{checks.GenAI(d)}
		})
	},
}

func init() {
	rootCmd.AddCommand(genaiCmd)
}

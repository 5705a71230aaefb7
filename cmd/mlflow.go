package cmd

import (
	"dbsmoke/internal/checks"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// mlflowCmd runs the tracking and registry check.
var mlflowCmd = &cobra.Command{
	Use:   "mlflow",
	Short: "Smoke-test MLflow tracking and model registration",
	Long: `Creates (or reuses) the configured experiment, starts a run, logs
params and metrics from a small synthetic training job, uploads the model
artifacts, and registers the model in the workspace or Unity Catalog
registry depending on MLFLOW_REGISTRY_URI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChecks(cmd, false, func(d *checks.Deps) []smoke.Check {
			return []smoke.Check{checks.MLflow(d)}
		})
	},
}

func init() {
	rootCmd.AddCommand(mlflowCmd)
}

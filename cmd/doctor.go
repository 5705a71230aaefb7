package cmd

import (
	"fmt"

	"dbsmoke/internal/checks"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// doctorCmd verifies configuration and workspace connectivity without
// writing anything to the workspace.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify configuration and workspace connectivity",
	Long: `Resolves the smoke-test configuration from the environment, an optional
dotenv file, and the Databricks CLI profile, prints every setting with
secrets masked, and confirms the workspace answers authenticated calls.

Nothing is created in the workspace.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), newFormatter().FormatSettings(cfg.Settings()))

	return runChecks(cmd, false, func(d *checks.Deps) []smoke.Check {
		return []smoke.Check{checks.Doctor(d)}
	})
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

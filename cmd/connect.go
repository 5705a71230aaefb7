package cmd

import (
	"context"
	"fmt"

	"dbsmoke/internal/checks"
	"dbsmoke/internal/config"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// connectCmd runs the cluster connectivity check.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Smoke-test cluster connectivity with a remote query",
	Long: `Verifies the configured cluster is running, opens an execution context
on it, runs a small SQL aggregation, and prints the result. Requires
DATABRICKS_CLUSTER_ID.`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Standalone connect requires the cluster id up front; inside the full
	// suite the check just skips instead.
	if err := config.ValidateForConnect(cfg); err != nil {
		return err
	}
	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}

	formatter := newFormatter()
	deps.QuerySink = func(headers []string, rows [][]string) {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRows(headers, rows))
	}

	report := newRunner(cmd).RunSuite(ctx, []smoke.Check{checks.Connect(deps)}, false)
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(report))

	if !report.OK() {
		return fmt.Errorf("connectivity check failed")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

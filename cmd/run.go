package cmd

import (
	"context"
	"fmt"

	"dbsmoke/internal/checks"
	"dbsmoke/internal/config"
	"dbsmoke/internal/formatting"
	"dbsmoke/internal/smoke"

	"github.com/spf13/cobra"
)

// loadConfig resolves the configuration with the shared flags applied.
func loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{
		EnvFile: flagEnvFile,
		Profile: flagProfile,
	})
}

// newFormatter builds the formatter selected by the --output flag.
func newFormatter() formatting.Formatter {
	format, _ := formatting.ParseOutputFormat(flagOutput)
	return formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Quiet:  flagQuiet,
		Color:  format == formatting.FormatConsole,
	})
}

// newRunner builds the check runner. Progress output only makes sense on
// the console format; structured formats get the report alone.
func newRunner(cmd *cobra.Command) *smoke.Runner {
	console := flagOutput == string(formatting.FormatConsole)
	return smoke.NewRunner(smoke.Options{
		Out:     cmd.OutOrStdout(),
		Quiet:   flagQuiet || !console,
		Spinner: console && !flagQuiet,
	})
}

// buildDeps validates the configuration and constructs the API clients.
func buildDeps(ctx context.Context, cfg *config.Config) (*checks.Deps, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return checks.NewDeps(ctx, cfg)
}

// runChecks is the shared body of the check subcommands: resolve config,
// build clients, run the given checks, render the report.
func runChecks(cmd *cobra.Command, parallel bool, build func(*checks.Deps) []smoke.Check) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	deps, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}

	report := newRunner(cmd).RunSuite(ctx, build(deps), parallel)
	fmt.Fprint(cmd.OutOrStdout(), newFormatter().FormatReport(report))

	if !report.OK() {
		return fmt.Errorf("%d of %d checks failed", report.Failed, len(report.Results))
	}
	return nil
}

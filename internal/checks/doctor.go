package checks

import (
	"context"
	"fmt"

	"dbsmoke/internal/config"
	"dbsmoke/internal/mlflow"
	"dbsmoke/internal/smoke"
)

// Doctor builds the configuration check: verifies that required settings
// resolve and that the workspace answers authenticated API calls.
func Doctor(d *Deps) smoke.Check {
	return smoke.Check{
		Name:        "doctor",
		Description: "configuration and workspace connectivity",
		Steps: []smoke.Step{
			{
				Name: "required settings present",
				Run: func(ctx context.Context, sc *smoke.StepContext) error {
					if err := config.Validate(d.Config); err != nil {
						return err
					}
					if d.Config.ProfileFile != "" {
						sc.Detailf("profile %q from %s", d.Config.Profile, d.Config.ProfileFile)
					}
					if d.Config.EnvFile != "" {
						sc.Detailf("environment loaded from %s", d.Config.EnvFile)
					}
					sc.Detailf("host %s", d.Config.Host)
					return nil
				},
			},
			{
				Name: "registry target",
				Run: func(ctx context.Context, sc *smoke.StepContext) error {
					if !d.Config.UsesUCRegistry() {
						sc.Detailf("workspace model registry")
						return nil
					}
					if d.Config.UCCatalog == "" || d.Config.UCSchema == "" {
						sc.Warnf("registry is %s but %s or %s is unset; registration will be skipped",
							config.RegistryUC, config.EnvUCCatalog, config.EnvUCSchema)
						return nil
					}
					sc.Detailf("Unity Catalog registry (%s.%s)", d.Config.UCCatalog, d.Config.UCSchema)
					return nil
				},
			},
			{
				Name: "workspace reachable",
				Run: func(ctx context.Context, sc *smoke.StepContext) error {
					exp, err := d.MLflow.GetExperimentByName(ctx, d.Config.ExperimentName)
					switch {
					case err == nil:
						sc.Detailf("experiment %s exists (id %s)", d.Config.ExperimentName, exp.ExperimentID)
					case mlflow.IsNotFound(err):
						// Authenticated and routed; the experiment just does
						// not exist yet.
						sc.Detailf("experiment %s not created yet", d.Config.ExperimentName)
					default:
						return fmt.Errorf("calling tracking API: %w", err)
					}
					return nil
				},
			},
		},
	}
}

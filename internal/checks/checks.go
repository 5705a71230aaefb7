// Package checks builds the smoke checks the CLI runs against a Databricks
// workspace: configuration, MLflow tracking and registry, trace logging,
// cluster connectivity, and agent logging.
package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dbsmoke/internal/config"
	"dbsmoke/internal/databricks"
	"dbsmoke/internal/mlflow"
	"dbsmoke/internal/smoke"
	"dbsmoke/pkg/logging"
)

// Step context keys shared between the steps of a check.
const (
	keyExperimentID = "experiment_id"
	keyRunID        = "run_id"
	keyArtifactURI  = "artifact_uri"
	keyRunOpen      = "run_open"
)

// Deps bundles the configuration and clients the check builders need.
type Deps struct {
	Config     *config.Config
	MLflow     *mlflow.Client
	Databricks *databricks.Client

	// QuerySink, when set, receives the connectivity check's query results
	// so the CLI can render them.
	QuerySink func(headers []string, rows [][]string)
}

// NewDeps authenticates against the workspace and constructs the API
// clients.
func NewDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	httpClient, err := databricks.NewAuthenticatedClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []mlflow.Option{mlflow.WithHTTPClient(httpClient)}
	if cfg.UsesUCRegistry() {
		opts = append(opts, mlflow.UseUCRegistry())
	}

	return &Deps{
		Config:     cfg,
		MLflow:     mlflow.NewClient(cfg.Host, opts...),
		Databricks: databricks.NewClient(cfg.Host, httpClient),
	}, nil
}

// All returns every check in the order the full suite runs them.
func All(d *Deps) []smoke.Check {
	return []smoke.Check{
		Doctor(d),
		MLflow(d),
		Traces(d),
		Connect(d),
		GenAI(d),
	}
}

// ensureExperimentStep resolves (or creates) the configured experiment and
// stores its id for later steps.
func (d *Deps) ensureExperimentStep() smoke.Step {
	return smoke.Step{
		Name: "ensure experiment",
		Run: func(ctx context.Context, sc *smoke.StepContext) error {
			exp, err := d.MLflow.EnsureExperiment(ctx, d.Config.ExperimentName)
			if err != nil {
				return fmt.Errorf("ensuring experiment %q: %w", d.Config.ExperimentName, err)
			}
			sc.Set(keyExperimentID, exp.ExperimentID)
			sc.Detailf("experiment %s (id %s)", d.Config.ExperimentName, exp.ExperimentID)
			return nil
		},
	}
}

// createRunStep starts a run in the experiment resolved by a previous step.
func (d *Deps) createRunStep(namePrefix string, tags map[string]string) smoke.Step {
	return smoke.Step{
		Name: "create run",
		Run: func(ctx context.Context, sc *smoke.StepContext) error {
			runName := fmt.Sprintf("%s-%s", namePrefix, time.Now().UTC().Format("20060102-150405"))
			run, err := d.MLflow.CreateRun(ctx, sc.String(keyExperimentID), runName, tags)
			if err != nil {
				return fmt.Errorf("creating run: %w", err)
			}
			sc.Set(keyRunID, run.Info.RunID)
			sc.Set(keyArtifactURI, run.Info.ArtifactURI)
			sc.Set(keyRunOpen, true)
			sc.Detailf("run %s (%s)", runName, run.Info.RunID)
			return nil
		},
	}
}

// endRunStep marks the run finished and clears the open flag so the check's
// cleanup does not touch it again.
func (d *Deps) endRunStep() smoke.Step {
	return smoke.Step{
		Name: "end run",
		Run: func(ctx context.Context, sc *smoke.StepContext) error {
			if err := d.MLflow.EndRun(ctx, sc.String(keyRunID)); err != nil {
				return fmt.Errorf("ending run: %w", err)
			}
			sc.Set(keyRunOpen, false)
			return nil
		},
	}
}

// failOpenRun is the cleanup shared by the run-producing checks: a run left
// open by an aborted check is closed with FAILED status.
func (d *Deps) failOpenRun(ctx context.Context, sc *smoke.StepContext) {
	open, _ := sc.Value(keyRunOpen).(bool)
	runID := sc.String(keyRunID)
	if !open || runID == "" {
		return
	}
	if err := d.MLflow.FailRun(context.WithoutCancel(ctx), runID); err != nil {
		logging.Warn("Checks", "could not close run %s as failed: %v", runID, err)
	}
}

// uploadArtifacts writes files under the run's artifact root through the
// DBFS API. Paths in files are relative to the artifact root.
func (d *Deps) uploadArtifacts(ctx context.Context, artifactURI string, files map[string][]byte) error {
	if !strings.HasPrefix(artifactURI, "dbfs:") {
		return smoke.Skipf("artifact root %s is not DBFS backed", artifactURI)
	}
	base := databricks.DBFSPathFromURI(artifactURI)
	for name, data := range files {
		path := base + "/" + name
		if err := d.Databricks.PutFile(ctx, path, data, true); err != nil {
			return fmt.Errorf("uploading %s: %w", name, err)
		}
	}
	return nil
}

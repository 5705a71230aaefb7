package checks

import (
	"context"
	"fmt"

	"dbsmoke/internal/config"
	"dbsmoke/internal/mlflow"
	"dbsmoke/internal/model"
	"dbsmoke/internal/smoke"
)

// Training parameters for the stand-in classifier, logged as run params.
const (
	trainSamples      = 200
	trainFeatures     = 4
	trainTestFraction = 0.25
	trainSeed         = 42
)

const registeredModelName = "dbsmoke-classifier"

// MLflow builds the tracking and registry check: experiment, run, params,
// metrics, model artifact upload, and model registration.
func MLflow(d *Deps) smoke.Check {
	var (
		clf      model.NearestCentroid
		accuracy float64
		f1       float64
	)

	steps := []smoke.Step{
		d.ensureExperimentStep(),
		d.createRunStep("smoke-mlflow", map[string]string{"smoke.check": "mlflow"}),
		{
			Name: "log params",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				params := map[string]string{
					"model_type":    "nearest_centroid",
					"num_samples":   fmt.Sprintf("%d", trainSamples),
					"num_features":  fmt.Sprintf("%d", trainFeatures),
					"test_fraction": fmt.Sprintf("%g", trainTestFraction),
				}
				if err := d.MLflow.LogBatch(ctx, sc.String(keyRunID), params, nil); err != nil {
					return fmt.Errorf("logging params: %w", err)
				}
				return nil
			},
		},
		{
			Name: "train model",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				ds := model.MakeClassification(trainSamples, trainFeatures, trainSeed)
				train, test := ds.Split(trainTestFraction, trainSeed)
				if err := clf.Fit(train); err != nil {
					return fmt.Errorf("fitting classifier: %w", err)
				}
				pred := clf.Predict(test.X)
				accuracy = model.Accuracy(test.Y, pred)
				f1 = model.F1Weighted(test.Y, pred)
				sc.Detailf("accuracy %.3f, f1 %.3f on %d held-out samples", accuracy, f1, len(test.Y))
				return nil
			},
		},
		{
			Name: "log metrics",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				metrics := map[string]float64{
					"accuracy": accuracy,
					"f1_score": f1,
				}
				if err := d.MLflow.LogBatch(ctx, sc.String(keyRunID), nil, metrics); err != nil {
					return fmt.Errorf("logging metrics: %w", err)
				}
				return nil
			},
		},
		{
			Name: "upload model artifacts",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				manifest, err := model.NewManifest("model", sc.String(keyRunID), map[string]interface{}{
					"python_function": map[string]interface{}{
						"loader_module":  "dbsmoke.classifier",
						"python_version": "3.11",
					},
				}).TensorSignature(trainFeatures).Render()
				if err != nil {
					return err
				}
				payload, err := model.RenderModel(&clf)
				if err != nil {
					return err
				}
				files := map[string][]byte{
					"model/MLmodel":    manifest,
					"model/model.yaml": payload,
				}
				if err := d.uploadArtifacts(ctx, sc.String(keyArtifactURI), files); err != nil {
					return err
				}
				sc.Detailf("uploaded %d files under %s/model", len(files), sc.String(keyArtifactURI))
				return nil
			},
		},
		{
			Name: "verify artifacts listed",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				files, err := d.MLflow.ListArtifacts(ctx, sc.String(keyRunID), "model")
				if err != nil {
					return fmt.Errorf("listing artifacts: %w", err)
				}
				if len(files) == 0 {
					sc.Warnf("artifact listing is empty; the store may index uploads asynchronously")
					return nil
				}
				sc.Detailf("%d artifact entries under model/", len(files))
				return nil
			},
		},
		d.endRunStep(),
		{
			Name: "register model",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				return d.registerModel(ctx, sc)
			},
		},
	}

	return smoke.Check{
		Name:        "mlflow",
		Description: "tracking, model artifacts, and registry",
		Steps:       steps,
		Cleanup:     d.failOpenRun,
	}
}

// registerModel registers the logged model in the configured registry. The
// Unity Catalog registry needs a three-level name; when the catalog or
// schema is not configured the step skips instead of failing.
func (d *Deps) registerModel(ctx context.Context, sc *smoke.StepContext) error {
	name := registeredModelName
	if d.Config.UsesUCRegistry() {
		if d.Config.UCCatalog == "" || d.Config.UCSchema == "" {
			return smoke.Skipf("%s registry needs %s and %s",
				config.RegistryUC, config.EnvUCCatalog, config.EnvUCSchema)
		}
		name = fmt.Sprintf("%s.%s.%s", d.Config.UCCatalog, d.Config.UCSchema, registeredModelName)
	}

	source := sc.String(keyArtifactURI) + "/model"
	version, err := d.MLflow.RegisterModel(ctx, name, source, sc.String(keyRunID))
	if err != nil {
		if mlflow.IsPermissionDenied(err) {
			return fmt.Errorf("registry denied registration of %s: %w", name, err)
		}
		return fmt.Errorf("registering %s: %w", name, err)
	}
	sc.Detailf("registered %s version %s", name, version.Version)

	// Metadata updates are best effort; a restricted token can still pass
	// the registration itself.
	if err := d.MLflow.UpdateModelVersion(ctx, name, version.Version,
		"Smoke-test registration of the synthetic classifier"); err != nil {
		sc.Warnf("could not set version description: %v", err)
	}
	if err := d.MLflow.SetModelVersionTag(ctx, name, version.Version, "smoke", "true"); err != nil {
		sc.Warnf("could not tag model version: %v", err)
	}
	return nil
}

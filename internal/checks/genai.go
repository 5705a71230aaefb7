package checks

import (
	"context"
	"fmt"
	"strings"

	"dbsmoke/internal/genai"
	"dbsmoke/internal/smoke"
)

// GenAI builds the agent logging check: exercise the mock agent locally,
// then log it as a model with its params, metric, and artifacts.
func GenAI(d *Deps) smoke.Check {
	agent := genai.NewAgent("")

	steps := []smoke.Step{
		{
			Name: "test agent locally",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				answer := agent.Answer(genai.ExampleQuestions[0])
				if !strings.HasPrefix(answer, "Mock response to:") {
					return fmt.Errorf("unexpected agent answer %q", answer)
				}
				predicted, err := agent.Predict(map[string]interface{}{"question": genai.ExampleQuestions[1]})
				if err != nil {
					return fmt.Errorf("agent predict: %w", err)
				}
				if predicted == "" {
					return fmt.Errorf("agent predict returned an empty answer")
				}
				sc.Detailf("agent answered %d sample questions", len(genai.ExampleQuestions))
				return nil
			},
		},
		d.ensureExperimentStep(),
		d.createRunStep("smoke-genai", map[string]string{"smoke.check": "genai"}),
		{
			Name: "log agent params",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				params := map[string]string{
					"agent_type": "simple_mock",
					"model_name": agent.ModelName,
				}
				metrics := map[string]float64{"test_passed": 1}
				if err := d.MLflow.LogBatch(ctx, sc.String(keyRunID), params, metrics); err != nil {
					return fmt.Errorf("logging agent params: %w", err)
				}
				return nil
			},
		},
		{
			Name: "upload agent artifacts",
			Run: func(ctx context.Context, sc *smoke.StepContext) error {
				files, err := genai.Package(agent, sc.String(keyRunID))
				if err != nil {
					return fmt.Errorf("packaging agent: %w", err)
				}
				if err := d.uploadArtifacts(ctx, sc.String(keyArtifactURI), files); err != nil {
					return err
				}
				sc.Detailf("uploaded %d agent files", len(files))
				return nil
			},
		},
		d.endRunStep(),
	}

	return smoke.Check{
		Name:        "genai",
		Description: "mock agent logging",
		Steps:       steps,
		Cleanup:     d.failOpenRun,
	}
}

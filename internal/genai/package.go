package genai

import (
	"encoding/json"
	"fmt"

	"dbsmoke/internal/model"

	"gopkg.in/yaml.v3"
)

// ExampleQuestions are the sample prompts logged alongside the agent.
var ExampleQuestions = []string{
	"What is the capital of France?",
	"Explain machine learning",
	"What is Go?",
}

// Artifacts holds the files to upload for a logged agent, keyed by path
// relative to the run's artifact root.
type Artifacts map[string][]byte

// Package assembles the agent's model artifacts: the MLmodel manifest, the
// agent configuration, and the examples.json payload of sample Q/A pairs.
func Package(a *Agent, runID string) (Artifacts, error) {
	manifest := model.NewManifest("agent", runID, map[string]interface{}{
		"python_function": map[string]interface{}{
			"loader_module":  "dbsmoke.genai_agent",
			"python_version": "3.11",
		},
	}).StringSignature()

	manifestData, err := manifest.Render()
	if err != nil {
		return nil, err
	}

	agentConfig, err := yaml.Marshal(map[string]string{
		"agent_type": "simple_mock",
		"model_name": a.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering agent config: %w", err)
	}

	examples := struct {
		ExampleQuestions []string `json:"example_questions"`
		ExampleResponse  string   `json:"example_response"`
	}{
		ExampleQuestions: ExampleQuestions,
		ExampleResponse:  a.Answer(ExampleQuestions[0]),
	}
	examplesData, err := json.MarshalIndent(examples, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering examples.json: %w", err)
	}

	return Artifacts{
		"agent/MLmodel":    manifestData,
		"agent/agent.yaml": agentConfig,
		"examples.json":    examplesData,
	}, nil
}

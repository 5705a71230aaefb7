// Package genai holds the mock question-answering agent the genai check
// logs to MLflow. The agent fabricates answers locally; its purpose is to
// exercise the model-logging path for GenAI-shaped models, not to call an
// LLM.
package genai

import (
	"encoding/json"
	"fmt"
)

const defaultModelName = "gpt-3.5-turbo"

// Agent is a stub agent answering questions with a canned response that
// echoes the question and the configured model name.
type Agent struct {
	ModelName string
}

// NewAgent creates an agent; an empty model name falls back to the default.
func NewAgent(modelName string) *Agent {
	if modelName == "" {
		modelName = defaultModelName
	}
	return &Agent{ModelName: modelName}
}

// Answer responds to a plain question.
func (a *Agent) Answer(question string) string {
	return fmt.Sprintf("Mock response to: %s (from %s)", question, a.ModelName)
}

// Predict is the generic inference entry point: it accepts either a bare
// string or a payload with a "question" field, matching the pyfunc predict
// contract of the original agent.
func (a *Agent) Predict(input interface{}) (string, error) {
	switch v := input.(type) {
	case string:
		return a.Answer(v), nil
	case map[string]interface{}:
		if q, ok := v["question"].(string); ok {
			return a.Answer(q), nil
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("unusable input payload: %w", err)
		}
		return a.Answer(string(raw)), nil
	default:
		return a.Answer(fmt.Sprintf("%v", v)), nil
	}
}

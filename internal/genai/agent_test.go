package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_Answer(t *testing.T) {
	a := NewAgent("")
	got := a.Answer("What is the capital of France?")
	assert.Equal(t, "Mock response to: What is the capital of France? (from gpt-3.5-turbo)", got)
}

func TestAgent_Predict(t *testing.T) {
	a := NewAgent("test-model")

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "bare string",
			input:    "hello",
			expected: "Mock response to: hello (from test-model)",
		},
		{
			name:     "question payload",
			input:    map[string]interface{}{"question": "what is Go?"},
			expected: "Mock response to: what is Go? (from test-model)",
		},
		{
			name:     "other scalar",
			input:    42,
			expected: "Mock response to: 42 (from test-model)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Predict(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAgent_PredictPayloadWithoutQuestion(t *testing.T) {
	a := NewAgent("test-model")
	got, err := a.Predict(map[string]interface{}{"prompt": "x"})
	require.NoError(t, err)
	assert.Contains(t, got, "prompt")
}

func TestPackage_ProducesExpectedArtifacts(t *testing.T) {
	a := NewAgent("")
	artifacts, err := Package(a, "run-1")
	require.NoError(t, err)

	require.Contains(t, artifacts, "agent/MLmodel")
	require.Contains(t, artifacts, "agent/agent.yaml")
	require.Contains(t, artifacts, "examples.json")

	manifest := string(artifacts["agent/MLmodel"])
	assert.Contains(t, manifest, "artifact_path: agent")
	assert.Contains(t, manifest, "run_id: run-1")

	examples := string(artifacts["examples.json"])
	assert.Contains(t, examples, "example_questions")
	assert.Contains(t, examples, "Mock response to: What is the capital of France?")
}

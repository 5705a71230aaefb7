package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest is the MLmodel file written next to a logged model artifact.
// The registry (Unity Catalog in particular) requires the signature block.
type Manifest struct {
	ArtifactPath   string                 `yaml:"artifact_path"`
	Flavors        map[string]interface{} `yaml:"flavors"`
	ModelUUID      string                 `yaml:"model_uuid"`
	RunID          string                 `yaml:"run_id"`
	Signature      *Signature             `yaml:"signature,omitempty"`
	UTCTimeCreated string                 `yaml:"utc_time_created"`
}

// Signature describes model inputs and outputs as JSON-encoded column specs,
// matching the layout mlflow.models.infer_signature produces.
type Signature struct {
	Inputs  string `yaml:"inputs"`
	Outputs string `yaml:"outputs"`
}

// NewManifest builds a manifest for an artifact logged under artifactPath in
// the given run.
func NewManifest(artifactPath, runID string, flavors map[string]interface{}) *Manifest {
	return &Manifest{
		ArtifactPath:   artifactPath,
		Flavors:        flavors,
		ModelUUID:      uuid.NewString(),
		RunID:          runID,
		UTCTimeCreated: time.Now().UTC().Format("2006-01-02 15:04:05.000000"),
	}
}

// TensorSignature fills the signature block for a float tensor input of the
// given width and an integer label output.
func (m *Manifest) TensorSignature(features int) *Manifest {
	m.Signature = &Signature{
		Inputs:  fmt.Sprintf(`[{"type": "tensor", "tensor-spec": {"dtype": "float64", "shape": [-1, %d]}}]`, features),
		Outputs: `[{"type": "tensor", "tensor-spec": {"dtype": "int64", "shape": [-1]}}]`,
	}
	return m
}

// StringSignature fills the signature block for a string-in, string-out
// model, the shape the mock agent uses.
func (m *Manifest) StringSignature() *Manifest {
	m.Signature = &Signature{
		Inputs:  `[{"type": "string", "name": "question"}]`,
		Outputs: `[{"type": "string"}]`,
	}
	return m
}

// Render serializes the manifest to MLmodel YAML.
func (m *Manifest) Render() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("rendering MLmodel manifest: %w", err)
	}
	return data, nil
}

// RenderModel serializes the trained classifier payload stored alongside
// the manifest.
func RenderModel(clf *NearestCentroid) ([]byte, error) {
	data, err := yaml.Marshal(clf)
	if err != nil {
		return nil, fmt.Errorf("rendering model payload: %w", err)
	}
	return data, nil
}

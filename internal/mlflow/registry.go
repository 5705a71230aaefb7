package mlflow

import (
	"context"
	"fmt"
	"net/url"

	"dbsmoke/pkg/logging"
)

// CreateRegisteredModel creates the named registry entry. Creating a model
// that already exists is not an error; registration is idempotent at this
// level, matching mlflow.register_model.
func (c *Client) CreateRegisteredModel(ctx context.Context, name string) error {
	req := map[string]string{"name": name}
	err := c.post(ctx, c.registryPrefix+"/registered-models/create", req, nil)
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("creating registered model %q: %w", name, err)
	}
	if IsAlreadyExists(err) {
		logging.Debug("MLflow", "registered model %q already exists", name)
	}
	return nil
}

// CreateModelVersion creates a new version of a registered model from a run
// artifact source.
func (c *Client) CreateModelVersion(ctx context.Context, name, source, runID string) (*ModelVersion, error) {
	req := struct {
		Name   string `json:"name"`
		Source string `json:"source"`
		RunID  string `json:"run_id,omitempty"`
	}{Name: name, Source: source, RunID: runID}

	var resp struct {
		ModelVersion ModelVersion `json:"model_version"`
	}
	if err := c.post(ctx, c.registryPrefix+"/model-versions/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp.ModelVersion, nil
}

// RegisterModel ensures the registered model exists and creates a version
// from the given run's model artifact, the two-step flow behind
// mlflow.register_model.
func (c *Client) RegisterModel(ctx context.Context, name, source, runID string) (*ModelVersion, error) {
	if err := c.CreateRegisteredModel(ctx, name); err != nil {
		return nil, err
	}
	mv, err := c.CreateModelVersion(ctx, name, source, runID)
	if err != nil {
		return nil, fmt.Errorf("creating version of %q: %w", name, err)
	}
	logging.Info("MLflow", "registered %s version %s (status %s)", mv.Name, mv.Version, mv.Status)
	return mv, nil
}

// UpdateModelVersion sets the description on a model version.
func (c *Client) UpdateModelVersion(ctx context.Context, name, version, description string) error {
	req := struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		Description string `json:"description"`
	}{Name: name, Version: version, Description: description}
	return c.patch(ctx, c.registryPrefix+"/model-versions/update", req, nil)
}

// SetModelVersionTag tags a model version.
func (c *Client) SetModelVersionTag(ctx context.Context, name, version, key, value string) error {
	req := struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Key     string `json:"key"`
		Value   string `json:"value"`
	}{Name: name, Version: version, Key: key, Value: value}
	return c.post(ctx, c.registryPrefix+"/model-versions/set-tag", req, nil)
}

// GetModelVersion fetches one version of a registered model.
func (c *Client) GetModelVersion(ctx context.Context, name, version string) (*ModelVersion, error) {
	query := url.Values{"name": {name}, "version": {version}}
	var resp struct {
		ModelVersion ModelVersion `json:"model_version"`
	}
	if err := c.get(ctx, c.registryPrefix+"/model-versions/get", query, &resp); err != nil {
		return nil, err
	}
	return &resp.ModelVersion, nil
}

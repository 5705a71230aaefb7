package mlflow

import (
	"context"
	"fmt"
	"net/url"

	"dbsmoke/pkg/logging"
)

// GetExperimentByName looks up an experiment by its workspace path.
func (c *Client) GetExperimentByName(ctx context.Context, name string) (*Experiment, error) {
	query := url.Values{"experiment_name": {name}}
	var resp struct {
		Experiment Experiment `json:"experiment"`
	}
	if err := c.get(ctx, trackingPrefix+"/experiments/get-by-name", query, &resp); err != nil {
		return nil, err
	}
	return &resp.Experiment, nil
}

// CreateExperiment creates an experiment and returns its id.
func (c *Client) CreateExperiment(ctx context.Context, name string) (string, error) {
	req := map[string]string{"name": name}
	var resp struct {
		ExperimentID string `json:"experiment_id"`
	}
	if err := c.post(ctx, trackingPrefix+"/experiments/create", req, &resp); err != nil {
		return "", err
	}
	return resp.ExperimentID, nil
}

// EnsureExperiment returns the experiment with the given name, creating it
// when it does not exist yet.
func (c *Client) EnsureExperiment(ctx context.Context, name string) (*Experiment, error) {
	exp, err := c.GetExperimentByName(ctx, name)
	if err == nil {
		return exp, nil
	}
	if !IsNotFound(err) {
		return nil, fmt.Errorf("looking up experiment %q: %w", name, err)
	}

	logging.Info("MLflow", "experiment %q not found, creating it", name)
	if _, err := c.CreateExperiment(ctx, name); err != nil {
		// Concurrent creation by another client is fine.
		if !IsAlreadyExists(err) {
			return nil, fmt.Errorf("creating experiment %q: %w", name, err)
		}
	}
	exp, err = c.GetExperimentByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("reading back experiment %q: %w", name, err)
	}
	return exp, nil
}

package mlflow

import (
	"context"
	"fmt"
	"net/url"
)

// CreateRun starts a run in the given experiment. The run comes back in
// RUNNING state; callers should close it with EndRun or FailRun.
func (c *Client) CreateRun(ctx context.Context, experimentID, runName string, tags map[string]string) (*Run, error) {
	req := struct {
		ExperimentID string   `json:"experiment_id"`
		RunName      string   `json:"run_name,omitempty"`
		StartTime    int64    `json:"start_time"`
		Tags         []RunTag `json:"tags,omitempty"`
	}{
		ExperimentID: experimentID,
		RunName:      runName,
		StartTime:    nowMillis(),
	}
	// The UI shows the run name through this tag.
	if runName != "" {
		req.Tags = append(req.Tags, RunTag{Key: "mlflow.runName", Value: runName})
	}
	for k, v := range tags {
		req.Tags = append(req.Tags, RunTag{Key: k, Value: v})
	}

	var resp struct {
		Run Run `json:"run"`
	}
	if err := c.post(ctx, trackingPrefix+"/runs/create", req, &resp); err != nil {
		return nil, err
	}
	if resp.Run.Info.RunName == "" {
		resp.Run.Info.RunName = runName
	}
	return &resp.Run, nil
}

// GetRun fetches a run with its logged data.
func (c *Client) GetRun(ctx context.Context, runID string) (*Run, error) {
	query := url.Values{"run_id": {runID}}
	var resp struct {
		Run Run `json:"run"`
	}
	if err := c.get(ctx, trackingPrefix+"/runs/get", query, &resp); err != nil {
		return nil, err
	}
	return &resp.Run, nil
}

// updateRun transitions a run to a terminal status.
func (c *Client) updateRun(ctx context.Context, runID, status string) error {
	req := struct {
		RunID   string `json:"run_id"`
		Status  string `json:"status"`
		EndTime int64  `json:"end_time"`
	}{RunID: runID, Status: status, EndTime: nowMillis()}
	return c.post(ctx, trackingPrefix+"/runs/update", req, nil)
}

// EndRun marks a run FINISHED.
func (c *Client) EndRun(ctx context.Context, runID string) error {
	return c.updateRun(ctx, runID, RunStatusFinished)
}

// FailRun marks a run FAILED. Used on check failure paths so no run is left
// dangling in RUNNING state.
func (c *Client) FailRun(ctx context.Context, runID string) error {
	return c.updateRun(ctx, runID, RunStatusFailed)
}

// LogParam logs a single parameter on a run.
func (c *Client) LogParam(ctx context.Context, runID, key, value string) error {
	req := struct {
		RunID string `json:"run_id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	}{RunID: runID, Key: key, Value: value}
	return c.post(ctx, trackingPrefix+"/runs/log-parameter", req, nil)
}

// LogMetric logs a single metric point on a run.
func (c *Client) LogMetric(ctx context.Context, runID, key string, value float64) error {
	req := struct {
		RunID     string  `json:"run_id"`
		Key       string  `json:"key"`
		Value     float64 `json:"value"`
		Timestamp int64   `json:"timestamp"`
		Step      int64   `json:"step"`
	}{RunID: runID, Key: key, Value: value, Timestamp: nowMillis()}
	return c.post(ctx, trackingPrefix+"/runs/log-metric", req, nil)
}

// LogBatch logs several params and metrics in one call, cutting the
// request count for checks that log a handful of values.
func (c *Client) LogBatch(ctx context.Context, runID string, params map[string]string, metrics map[string]float64) error {
	req := struct {
		RunID   string   `json:"run_id"`
		Params  []Param  `json:"params,omitempty"`
		Metrics []Metric `json:"metrics,omitempty"`
	}{RunID: runID}

	for k, v := range params {
		req.Params = append(req.Params, Param{Key: k, Value: v})
	}
	ts := nowMillis()
	for k, v := range metrics {
		req.Metrics = append(req.Metrics, Metric{Key: k, Value: v, Timestamp: ts})
	}

	if err := c.post(ctx, trackingPrefix+"/runs/log-batch", req, nil); err != nil {
		return fmt.Errorf("logging batch of %d params, %d metrics: %w", len(req.Params), len(req.Metrics), err)
	}
	return nil
}

// ListArtifacts lists the entries under a run's artifact root, optionally
// below a relative path.
func (c *Client) ListArtifacts(ctx context.Context, runID, path string) ([]FileInfo, error) {
	query := url.Values{"run_id": {runID}}
	if path != "" {
		query.Set("path", path)
	}
	var resp struct {
		RootURI string     `json:"root_uri"`
		Files   []FileInfo `json:"files"`
	}
	if err := c.get(ctx, trackingPrefix+"/artifacts/list", query, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

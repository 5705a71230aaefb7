package mlflow

import (
	"context"
	"fmt"
)

// Trace states on the v3 surface.
const (
	TraceStateOK    = "OK"
	TraceStateError = "ERROR"
)

// CreateTrace exports a completed trace (metadata plus spans) to the
// tracking server.
func (c *Client) CreateTrace(ctx context.Context, trace *Trace) (*TraceInfo, error) {
	var resp struct {
		Trace Trace `json:"trace"`
	}
	req := struct {
		Trace *Trace `json:"trace"`
	}{Trace: trace}
	if err := c.post(ctx, tracePrefix+"/traces", req, &resp); err != nil {
		return nil, fmt.Errorf("exporting trace %s: %w", trace.Info.TraceID, err)
	}
	info := resp.Trace.Info
	if info.TraceID == "" {
		info = trace.Info
	}
	return &info, nil
}

// SearchTraces queries traces in the given experiments. An empty filter
// returns the most recent traces first.
func (c *Client) SearchTraces(ctx context.Context, experimentIDs []string, filter string, maxResults int) ([]TraceInfo, error) {
	if maxResults <= 0 {
		maxResults = 25
	}
	req := struct {
		Locations  []traceLocation `json:"locations"`
		Filter     string          `json:"filter,omitempty"`
		MaxResults int             `json:"max_results"`
		OrderBy    []string        `json:"order_by,omitempty"`
	}{
		Filter:     filter,
		MaxResults: maxResults,
		OrderBy:    []string{"timestamp_ms DESC"},
	}
	for _, id := range experimentIDs {
		req.Locations = append(req.Locations, traceLocation{
			Type:             "MLFLOW_EXPERIMENT",
			MLflowExperiment: experimentLocation{ExperimentID: id},
		})
	}

	var resp struct {
		Traces []TraceInfo `json:"traces"`
	}
	if err := c.post(ctx, tracePrefix+"/traces/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Traces, nil
}

type traceLocation struct {
	Type             string             `json:"type"`
	MLflowExperiment experimentLocation `json:"mlflow_experiment"`
}

type experimentLocation struct {
	ExperimentID string `json:"experiment_id"`
}

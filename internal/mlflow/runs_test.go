package mlflow

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRun_SetsRunNameTag(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/runs/create", http.StatusOK,
		map[string]interface{}{"run": Run{Info: RunInfo{
			RunID: "run-1", ExperimentID: "42", Status: RunStatusRunning,
			ArtifactURI: "dbfs:/databricks/mlflow-tracking/42/run-1/artifacts",
		}}})

	run, err := f.client().CreateRun(context.Background(), "42", "smoke_20260830", map[string]string{"origin": "dbsmoke"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.Info.RunID)
	assert.Equal(t, "smoke_20260830", run.Info.RunName)

	req := f.lastRequest()
	assert.Equal(t, "42", req.Body["experiment_id"])
	tags, ok := req.Body["tags"].([]interface{})
	require.True(t, ok)

	seen := map[string]string{}
	for _, raw := range tags {
		tag := raw.(map[string]interface{})
		seen[tag["key"].(string)] = tag["value"].(string)
	}
	assert.Equal(t, "smoke_20260830", seen["mlflow.runName"])
	assert.Equal(t, "dbsmoke", seen["origin"])
}

func TestLogBatch_SendsParamsAndMetrics(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/runs/log-batch", http.StatusOK, nil)

	err := f.client().LogBatch(context.Background(), "run-1",
		map[string]string{"n_estimators": "100", "max_depth": "5"},
		map[string]float64{"accuracy": 0.93})
	require.NoError(t, err)

	req := f.lastRequest()
	assert.Equal(t, "run-1", req.Body["run_id"])
	assert.Len(t, req.Body["params"], 2)
	assert.Len(t, req.Body["metrics"], 1)
}

func TestEndRun_And_FailRun(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/runs/update", http.StatusOK, nil)

	require.NoError(t, f.client().EndRun(context.Background(), "run-1"))
	assert.Equal(t, RunStatusFinished, f.lastRequest().Body["status"])

	require.NoError(t, f.client().FailRun(context.Background(), "run-1"))
	assert.Equal(t, RunStatusFailed, f.lastRequest().Body["status"])
}

func TestListArtifacts(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodGet, "/api/2.0/mlflow/artifacts/list", http.StatusOK,
		map[string]interface{}{
			"root_uri": "dbfs:/databricks/mlflow-tracking/42/run-1/artifacts",
			"files": []FileInfo{
				{Path: "model/MLmodel", FileSize: 412},
				{Path: "examples.json", FileSize: 180},
			},
		})

	files, err := f.client().ListArtifacts(context.Background(), "run-1", "")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "model/MLmodel", files[0].Path)
	assert.Equal(t, "run-1", f.lastRequest().Query["run_id"])
}

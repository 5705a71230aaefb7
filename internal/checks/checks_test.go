package checks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"dbsmoke/internal/config"
	"dbsmoke/internal/databricks"
	"dbsmoke/internal/mlflow"
	"dbsmoke/internal/smoke"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorkspace serves the tracking, registry, and workspace endpoints the
// checks call. Handlers are keyed "METHOD path"; unhandled paths answer 404
// the way the real API does.
type fakeWorkspace struct {
	t *testing.T

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    []string
	bodies   map[string][]byte

	srv *httptest.Server
}

func newFakeWorkspace(t *testing.T) *fakeWorkspace {
	f := &fakeWorkspace{
		t:        t,
		handlers: map[string]http.HandlerFunc{},
		bodies:   map[string][]byte{},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.dispatch))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeWorkspace) handle(key string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[key] = h
}

func (f *fakeWorkspace) respond(key string, status int, body string) {
	f.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

func (f *fakeWorkspace) dispatch(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	var raw bytes.Buffer
	raw.ReadFrom(r.Body) //nolint:errcheck

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = raw.Bytes()
	h, ok := f.handlers[key]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error_code": "RESOURCE_DOES_NOT_EXIST", "message": "not found"}`)
		return
	}
	h(w, r)
}

func (f *fakeWorkspace) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeWorkspace) body(key string) map[string]interface{} {
	f.mu.Lock()
	raw := f.bodies[key]
	f.mu.Unlock()

	var decoded map[string]interface{}
	require.NoError(f.t, json.Unmarshal(raw, &decoded), "body of %s", key)
	return decoded
}

func testConfig() *config.Config {
	return &config.Config{
		TrackingURI:    "databricks",
		ExperimentName: "/Users/tester/dbsmoke",
		Profile:        "DEFAULT",
		Token:          "dapi-test-token",
	}
}

func newTestDeps(t *testing.T, f *fakeWorkspace, cfg *config.Config) *Deps {
	cfg.Host = f.srv.URL
	opts := []mlflow.Option{mlflow.WithHTTPClient(f.srv.Client())}
	if cfg.UsesUCRegistry() {
		opts = append(opts, mlflow.UseUCRegistry())
	}
	return &Deps{
		Config:     cfg,
		MLflow:     mlflow.NewClient(cfg.Host, opts...),
		Databricks: databricks.NewClient(cfg.Host, f.srv.Client()),
	}
}

func runCheck(t *testing.T, check smoke.Check) smoke.CheckResult {
	var out bytes.Buffer
	r := smoke.NewRunner(smoke.Options{Out: &out, Quiet: true})
	return r.RunCheck(context.Background(), check)
}

// stubTracking installs the happy-path tracking handlers shared by the
// run-producing checks.
func stubTracking(f *fakeWorkspace) {
	f.respond("GET /api/2.0/mlflow/experiments/get-by-name", http.StatusOK,
		`{"experiment": {"experiment_id": "exp1", "name": "/Users/tester/dbsmoke"}}`)
	f.respond("POST /api/2.0/mlflow/runs/create", http.StatusOK,
		`{"run": {"info": {"run_id": "run1", "experiment_id": "exp1",
			"status": "RUNNING", "artifact_uri": "dbfs:/tmp/dbsmoke/run1/artifacts"}}}`)
	f.respond("POST /api/2.0/mlflow/runs/log-batch", http.StatusOK, `{}`)
	f.respond("POST /api/2.0/mlflow/runs/update", http.StatusOK, `{"run_info": {"run_id": "run1"}}`)
	f.respond("POST /api/2.0/dbfs/put", http.StatusOK, `{}`)
}

func TestDoctorCheckPasses(t *testing.T) {
	f := newFakeWorkspace(t)
	// Experiment lookup falls through to the default 404; doctor treats
	// RESOURCE_DOES_NOT_EXIST as reachable.
	deps := newTestDeps(t, f, testConfig())

	result := runCheck(t, Doctor(deps))

	assert.Equal(t, smoke.StatusPassed, result.Status)
	assert.True(t, f.called("GET /api/2.0/mlflow/experiments/get-by-name"))
}

func TestDoctorCheckFailsWithoutCredentials(t *testing.T) {
	f := newFakeWorkspace(t)
	cfg := testConfig()
	cfg.Token = ""
	deps := newTestDeps(t, f, cfg)

	result := runCheck(t, Doctor(deps))

	assert.Equal(t, smoke.StatusFailed, result.Status)
	require.NotEmpty(t, result.Steps)
	assert.Contains(t, result.Steps[0].Error, config.EnvToken)
}

func TestMLflowCheckHappyPath(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("GET /api/2.0/mlflow/artifacts/list", http.StatusOK,
		`{"root_uri": "dbfs:/tmp/dbsmoke/run1/artifacts",
		  "files": [{"path": "model/MLmodel", "file_size": 40}]}`)
	f.respond("POST /api/2.0/mlflow/registered-models/create", http.StatusOK, `{}`)
	f.respond("POST /api/2.0/mlflow/model-versions/create", http.StatusOK,
		`{"model_version": {"name": "dbsmoke-classifier", "version": "3"}}`)
	f.respond("PATCH /api/2.0/mlflow/model-versions/update", http.StatusOK, `{}`)
	f.respond("POST /api/2.0/mlflow/model-versions/set-tag", http.StatusOK, `{}`)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, MLflow(deps))

	require.Equal(t, smoke.StatusPassed, result.Status, "diagnostics: %v", result.Diagnostics)

	// Params and metrics went through log-batch.
	assert.True(t, f.called("POST /api/2.0/mlflow/runs/log-batch"))
	// Both model files were uploaded.
	assert.True(t, f.called("POST /api/2.0/dbfs/put"))
	// The run was closed as finished, not failed.
	update := f.body("POST /api/2.0/mlflow/runs/update")
	assert.Equal(t, "FINISHED", update["status"])
	// Registration reached version creation.
	version := f.body("POST /api/2.0/mlflow/model-versions/create")
	assert.Equal(t, "dbsmoke-classifier", version["name"])
	assert.Equal(t, "dbfs:/tmp/dbsmoke/run1/artifacts/model", version["source"])
}

func TestMLflowCheckClosesRunOnFailure(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("POST /api/2.0/mlflow/runs/log-batch", http.StatusInternalServerError,
		`{"error_code": "INTERNAL_ERROR", "message": "metric store unavailable"}`)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, MLflow(deps))

	assert.Equal(t, smoke.StatusFailed, result.Status)
	update := f.body("POST /api/2.0/mlflow/runs/update")
	assert.Equal(t, "FAILED", update["status"], "an aborted check must close its run as failed")
}

func TestMLflowCheckUCRegistryWithoutCatalogSkipsRegistration(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("GET /api/2.0/mlflow/artifacts/list", http.StatusOK, `{"files": []}`)

	cfg := testConfig()
	cfg.RegistryURI = config.RegistryUC
	deps := newTestDeps(t, f, cfg)

	result := runCheck(t, MLflow(deps))

	require.Equal(t, smoke.StatusPassed, result.Status, "diagnostics: %v", result.Diagnostics)
	last := result.Steps[len(result.Steps)-1]
	assert.Equal(t, "register model", last.Name)
	assert.Equal(t, smoke.StatusSkipped, last.Status)
	assert.False(t, f.called("POST /api/2.0/mlflow/unity-catalog/model-versions/create"))
}

func TestTracesCheckHappyPath(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("POST /api/3.0/mlflow/traces", http.StatusOK,
		`{"trace": {"info": {"trace_id": "tr-1", "state": "OK"}}}`)
	f.respond("POST /api/3.0/mlflow/traces/search", http.StatusOK,
		`{"traces": [{"trace_id": "tr-1", "state": "OK"}]}`)
	f.respond("GET /api/2.0/mlflow/runs/get", http.StatusOK,
		`{"run": {"info": {"run_id": "run1", "status": "FINISHED"}}}`)
	f.respond("GET /api/2.0/mlflow/artifacts/list", http.StatusOK, `{"files": []}`)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, Traces(deps))

	require.Equal(t, smoke.StatusPassed, result.Status, "diagnostics: %v", result.Diagnostics)
	assert.True(t, f.called("POST /api/3.0/mlflow/traces"))
	assert.True(t, f.called("POST /api/3.0/mlflow/traces/search"))
}

func TestTracesCheckFailsWhenExportDenied(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("POST /api/3.0/mlflow/traces", http.StatusForbidden,
		`{"error_code": "PERMISSION_DENIED", "message": "traces are not enabled"}`)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, Traces(deps))

	assert.Equal(t, smoke.StatusFailed, result.Status)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0], "trace export denied")
}

func TestTracesCheckWarnsWhenSearchEmpty(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)
	f.respond("POST /api/3.0/mlflow/traces", http.StatusOK,
		`{"trace": {"info": {"trace_id": "tr-1"}}}`)
	f.respond("POST /api/3.0/mlflow/traces/search", http.StatusOK, `{"traces": []}`)
	f.respond("GET /api/2.0/mlflow/runs/get", http.StatusOK,
		`{"run": {"info": {"run_id": "run1", "status": "FINISHED"}}}`)
	f.respond("GET /api/2.0/mlflow/artifacts/list", http.StatusOK, `{"files": []}`)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, Traces(deps))

	require.Equal(t, smoke.StatusPassed, result.Status)
	last := result.Steps[len(result.Steps)-1]
	require.Equal(t, "search traces", last.Name)
	assert.NotEmpty(t, last.Warnings, "an empty search result warns instead of failing")
}

func TestConnectCheckSkippedWithoutCluster(t *testing.T) {
	f := newFakeWorkspace(t)
	deps := newTestDeps(t, f, testConfig())

	result := runCheck(t, Connect(deps))

	assert.Equal(t, smoke.StatusSkipped, result.Status)
	for _, step := range result.Steps {
		assert.Equal(t, smoke.StatusSkipped, step.Status, "step %q", step.Name)
	}
	assert.False(t, f.called("GET /api/2.0/clusters/get"))
	assert.False(t, f.called("POST /api/1.2/contexts/create"),
		"no execution context may be opened without a cluster id")
}

func TestConnectCheckHappyPath(t *testing.T) {
	f := newFakeWorkspace(t)
	f.respond("GET /api/2.0/clusters/get", http.StatusOK,
		`{"cluster_id": "0101-abc", "cluster_name": "smoke", "state": "RUNNING"}`)
	f.respond("POST /api/1.2/contexts/create", http.StatusOK, `{"id": "ctx1"}`)
	f.respond("POST /api/1.2/commands/execute", http.StatusOK, `{"id": "cmd1"}`)
	f.respond("GET /api/1.2/commands/status", http.StatusOK,
		`{"id": "cmd1", "status": "Finished", "results": {
			"resultType": "table",
			"schema": [{"name": "row_count", "type": "bigint"}, {"name": "avg_id", "type": "double"}],
			"data": [[100, 49.5]]}}`)
	f.respond("POST /api/1.2/contexts/destroy", http.StatusOK, `{}`)

	cfg := testConfig()
	cfg.ClusterID = "0101-abc"
	deps := newTestDeps(t, f, cfg)

	result := runCheck(t, Connect(deps))

	require.Equal(t, smoke.StatusPassed, result.Status, "diagnostics: %v", result.Diagnostics)
	assert.True(t, f.called("POST /api/1.2/contexts/destroy"), "execution context must be torn down")
}

func TestConnectCheckFailsWhenClusterNotRunning(t *testing.T) {
	f := newFakeWorkspace(t)
	f.respond("GET /api/2.0/clusters/get", http.StatusOK,
		`{"cluster_id": "0101-abc", "cluster_name": "smoke", "state": "TERMINATED"}`)

	cfg := testConfig()
	cfg.ClusterID = "0101-abc"
	deps := newTestDeps(t, f, cfg)

	result := runCheck(t, Connect(deps))

	assert.Equal(t, smoke.StatusFailed, result.Status)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0], "TERMINATED")
	assert.False(t, f.called("POST /api/1.2/contexts/create"))
}

func TestGenAICheckHappyPath(t *testing.T) {
	f := newFakeWorkspace(t)
	stubTracking(f)

	deps := newTestDeps(t, f, testConfig())
	result := runCheck(t, GenAI(deps))

	require.Equal(t, smoke.StatusPassed, result.Status, "diagnostics: %v", result.Diagnostics)

	batch := f.body("POST /api/2.0/mlflow/runs/log-batch")
	params, _ := batch["params"].([]interface{})
	keys := map[string]bool{}
	for _, p := range params {
		entry, _ := p.(map[string]interface{})
		key, _ := entry["key"].(string)
		keys[key] = true
	}
	assert.True(t, keys["agent_type"])
	assert.True(t, keys["model_name"])

	update := f.body("POST /api/2.0/mlflow/runs/update")
	assert.Equal(t, "FINISHED", update["status"])
}

func TestAllReturnsEveryCheckInOrder(t *testing.T) {
	f := newFakeWorkspace(t)
	deps := newTestDeps(t, f, testConfig())

	checks := All(deps)

	require.Len(t, checks, 5)
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"doctor", "mlflow", "traces", "connect", "genai"}, names)
}

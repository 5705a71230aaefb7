package mlflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTracking is a minimal in-memory stand-in for the tracking server used
// across the client tests. Handlers are registered per method+path.
type fakeTracking struct {
	t *testing.T

	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc

	server *httptest.Server
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
	Query  map[string]string
}

func newFakeTracking(t *testing.T) *fakeTracking {
	t.Helper()
	f := &fakeTracking{t: t, handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.dispatch))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTracking) handle(method, path string, h http.HandlerFunc) {
	f.handlers[method+" "+path] = h
}

func (f *fakeTracking) respond(method, path string, status int, body interface{}) {
	f.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

func (f *fakeTracking) dispatch(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: map[string]string{}}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if h, ok := f.handlers[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error_code": "RESOURCE_DOES_NOT_EXIST",
		"message":    "no handler for " + r.URL.Path,
	})
}

func (f *fakeTracking) client(opts ...Option) *Client {
	return NewClient(f.server.URL, opts...)
}

func (f *fakeTracking) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		errorCode string
		check     func(error) bool
	}{
		{"not found by code", http.StatusBadRequest, "RESOURCE_DOES_NOT_EXIST", IsNotFound},
		{"not found by status", http.StatusNotFound, "", IsNotFound},
		{"already exists", http.StatusBadRequest, "RESOURCE_ALREADY_EXISTS", IsAlreadyExists},
		{"permission denied by code", http.StatusForbidden, "PERMISSION_DENIED", IsPermissionDenied},
		{"permission denied by status", http.StatusForbidden, "", IsPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeTracking(t)
			f.respond(http.MethodGet, "/api/2.0/mlflow/experiments/get-by-name",
				tt.status, map[string]string{"error_code": tt.errorCode, "message": "nope"})

			_, err := f.client().GetExperimentByName(context.Background(), "/Users/x/exp")
			require.Error(t, err)
			assert.True(t, tt.check(err), "classifier did not match: %v", err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestClient_ErrorMessageFromPlainBody(t *testing.T) {
	f := newFakeTracking(t)
	f.handle(http.MethodGet, "/api/2.0/mlflow/experiments/get-by-name",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream unavailable"))
		})

	_, err := f.client().GetExperimentByName(context.Background(), "/Users/x/exp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.False(t, IsNotFound(err))
}

func TestClient_ContextCancellation(t *testing.T) {
	f := newFakeTracking(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client().GetExperimentByName(ctx, "/Users/x/exp")
	assert.Error(t, err)
}

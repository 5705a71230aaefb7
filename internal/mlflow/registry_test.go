package mlflow

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterModel_CreatesModelAndVersion(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/registered-models/create", http.StatusOK, nil)
	f.respond(http.MethodPost, "/api/2.0/mlflow/model-versions/create", http.StatusOK,
		map[string]interface{}{"model_version": ModelVersion{
			Name: "smoke_model", Version: "1", Status: "READY",
			Source: "runs:/run-1/model",
		}})

	mv, err := f.client().RegisterModel(context.Background(), "smoke_model", "runs:/run-1/model", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "1", mv.Version)
	assert.Equal(t, "READY", mv.Status)
}

func TestRegisterModel_ToleratesExistingModel(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/registered-models/create", http.StatusBadRequest,
		map[string]string{"error_code": "RESOURCE_ALREADY_EXISTS", "message": "exists"})
	f.respond(http.MethodPost, "/api/2.0/mlflow/model-versions/create", http.StatusOK,
		map[string]interface{}{"model_version": ModelVersion{Name: "smoke_model", Version: "4"}})

	mv, err := f.client().RegisterModel(context.Background(), "smoke_model", "runs:/run-1/model", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "4", mv.Version)
}

func TestRegistry_UCPrefixRouting(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/unity-catalog/registered-models/create", http.StatusOK, nil)
	f.respond(http.MethodPost, "/api/2.0/mlflow/unity-catalog/model-versions/create", http.StatusOK,
		map[string]interface{}{"model_version": ModelVersion{
			Name: "main.default.smoke_model", Version: "1",
		}})

	mv, err := f.client(UseUCRegistry()).RegisterModel(context.Background(),
		"main.default.smoke_model", "runs:/run-1/model", "run-1")
	require.NoError(t, err)
	assert.Equal(t, "main.default.smoke_model", mv.Name)
}

func TestUpdateModelVersion_UsesPatch(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPatch, "/api/2.0/mlflow/model-versions/update", http.StatusOK, nil)

	err := f.client().UpdateModelVersion(context.Background(), "smoke_model", "1", "registered by dbsmoke")
	require.NoError(t, err)

	req := f.lastRequest()
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "registered by dbsmoke", req.Body["description"])
}

func TestSetModelVersionTag(t *testing.T) {
	f := newFakeTracking(t)
	f.respond(http.MethodPost, "/api/2.0/mlflow/model-versions/set-tag", http.StatusOK, nil)

	err := f.client().SetModelVersionTag(context.Background(), "smoke_model", "1", "source", "dbsmoke")
	require.NoError(t, err)
	assert.Equal(t, "source", f.lastRequest().Body["key"])
}

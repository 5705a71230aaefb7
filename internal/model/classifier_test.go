package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeClassification_Deterministic(t *testing.T) {
	a := MakeClassification(100, 5, 42)
	b := MakeClassification(100, 5, 42)
	assert.Equal(t, a.X, b.X)
	assert.Equal(t, a.Y, b.Y)

	c := MakeClassification(100, 5, 7)
	assert.NotEqual(t, a.X, c.X)
}

func TestNearestCentroid_SeparatesClusters(t *testing.T) {
	ds := MakeClassification(1000, 20, 42)
	train, test := ds.Split(0.2, 42)
	require.NotEmpty(t, test.X)

	clf := &NearestCentroid{}
	require.NoError(t, clf.Fit(train))

	pred := clf.Predict(test.X)
	acc := Accuracy(test.Y, pred)
	f1 := F1Weighted(test.Y, pred)

	// The clusters are well separated; anything below this would mean the
	// classifier is broken, not unlucky.
	assert.Greater(t, acc, 0.9)
	assert.Greater(t, f1, 0.9)
}

func TestNearestCentroid_FitEmpty(t *testing.T) {
	clf := &NearestCentroid{}
	assert.Error(t, clf.Fit(&Dataset{}))
}

func TestAccuracyAndF1_Degenerate(t *testing.T) {
	assert.Zero(t, Accuracy(nil, nil))
	assert.Zero(t, F1Weighted(nil, nil))

	truth := []int{0, 0, 1, 1}
	assert.Equal(t, 1.0, Accuracy(truth, truth))
	assert.Equal(t, 1.0, F1Weighted(truth, truth))

	wrong := []int{1, 1, 0, 0}
	assert.Zero(t, Accuracy(truth, wrong))
	assert.Zero(t, F1Weighted(truth, wrong))
}

func TestManifest_Render(t *testing.T) {
	m := NewManifest("model", "run-1", map[string]interface{}{
		"python_function": map[string]string{"loader_module": "dbsmoke.nearest_centroid"},
	}).TensorSignature(20)

	data, err := m.Render()
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "artifact_path: model")
	assert.Contains(t, text, "run_id: run-1")
	assert.Contains(t, text, "signature:")
	assert.True(t, strings.Contains(text, "tensor-spec"))
	assert.NotEmpty(t, m.ModelUUID)
}

func TestRenderModel_RoundTrips(t *testing.T) {
	ds := MakeClassification(100, 4, 42)
	clf := &NearestCentroid{}
	require.NoError(t, clf.Fit(ds))

	data, err := RenderModel(clf)
	require.NoError(t, err)
	assert.Contains(t, string(data), "centroids:")
	assert.Contains(t, string(data), "num_features: 4")
}

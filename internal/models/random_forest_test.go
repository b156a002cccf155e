package models

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns points where feature 0 alone decides the class.
func separable() ([][]float64, []int) {
	var X [][]float64
	var y []int
	for i := 0; i < 50; i++ {
		X = append(X, []float64{float64(i % 10), float64(i)})
		y = append(y, 0)
	}
	for i := 0; i < 50; i++ {
		X = append(X, []float64{100 + float64(i%10), float64(i)})
		y = append(y, 1)
	}
	return X, y
}

func TestDecisionTree_SeparableData(t *testing.T) {
	X, y := separable()
	dt := NewDecisionTree()
	dt.MinSamplesSplit = 2
	require.NoError(t, dt.Fit(X, y))

	preds := dt.Predict([][]float64{{5, 0}, {105, 0}})
	assert.Equal(t, []int{0, 1}, preds)
}

func TestRandomForest_SeparableData(t *testing.T) {
	X, y := separable()
	rf := NewRandomForest()
	rf.NEstimators = 20
	rf.MinSamplesSplit = 2
	require.NoError(t, rf.Fit(X, y))

	ps := rf.PredictProba([][]float64{{5, 0}, {105, 0}})
	assert.Less(t, ps[0], 0.5)
	assert.Greater(t, ps[1], 0.5)
	assert.Equal(t, []int{0, 1}, rf.Predict([][]float64{{5, 0}, {105, 0}}))
}

func TestRandomForest_DeterministicWithSeed(t *testing.T) {
	X, y := separable()

	a := NewRandomForest()
	a.NEstimators = 10
	a.MinSamplesSplit = 2
	require.NoError(t, a.Fit(X, y))

	b := NewRandomForest()
	b.NEstimators = 10
	b.MinSamplesSplit = 2
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
}

func TestRandomForest_GobRoundTrip(t *testing.T) {
	X, y := separable()
	rf := NewRandomForest()
	rf.NEstimators = 5
	rf.MinSamplesSplit = 2
	require.NoError(t, rf.Fit(X, y))

	path := filepath.Join(t.TempDir(), "rf.gob")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(f).Encode(rf))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var loaded RandomForest
	require.NoError(t, gob.NewDecoder(f).Decode(&loaded))

	assert.Equal(t, rf.PredictProba(X), loaded.PredictProba(X))
}

func TestPredictWithoutFit(t *testing.T) {
	dt := NewDecisionTree()
	ps := dt.PredictProba([][]float64{{1, 2}})
	assert.Equal(t, []float64{0.5}, ps)

	rf := NewRandomForest()
	ps = rf.PredictProba([][]float64{{1, 2}})
	assert.Equal(t, []float64{0.5}, ps)
}

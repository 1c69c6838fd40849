package mlmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscout/subscout/internal/common"
)

// separableData builds a toy binary problem where feature 0 decides the
// class and the remaining features are noise.
func separableData() ([][]float64, []int) {
	var x [][]float64
	var y []int
	noise := []float64{0.1, 0.7, 0.3, 0.9, 0.5, 0.2, 0.8, 0.4, 0.6, 0.05}
	for i := 0; i < 10; i++ {
		x = append(x, []float64{1, noise[i], float64(i)})
		y = append(y, 1)
		x = append(x, []float64{0, noise[9-i], float64(i)})
		y = append(y, 0)
	}
	return x, y
}

func TestTrainForestLearnsSeparableData(t *testing.T) {
	x, y := separableData()
	f := TrainForest(x, y, 42, nil)

	require.Len(t, f.Trees, ForestTrees)
	assert.Equal(t, 3, f.NumFeatures)
	assert.Greater(t, f.PredictProba([]float64{1, 0.5, 3}), 0.8)
	assert.Less(t, f.PredictProba([]float64{0, 0.5, 3}), 0.2)
}

func TestTrainForestDeterministic(t *testing.T) {
	x, y := separableData()
	a := TrainForest(x, y, 42, nil)
	b := TrainForest(x, y, 42, nil)
	assert.Equal(t, a, b)
}

func TestTrainForestProgressCallback(t *testing.T) {
	x, y := separableData()
	calls := 0
	TrainForest(x, y, 42, func() { calls++ })
	assert.Equal(t, ForestTrees, calls)
}

func TestTrainBoostLearnsSeparableData(t *testing.T) {
	x, y := separableData()
	b := TrainBoost(x, y, 42, nil)

	require.Len(t, b.Trees, BoostRounds)
	assert.Greater(t, b.PredictProba([]float64{1, 0.5, 3}), 0.8)
	assert.Less(t, b.PredictProba([]float64{0, 0.5, 3}), 0.2)
}

func TestSaveLoadForestRoundTrip(t *testing.T) {
	x, y := separableData()
	f := TrainForest(x, y, 42, nil)

	path := filepath.Join(t.TempDir(), ForestArtifact)
	require.NoError(t, SaveModel(path, f))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, FamilyForest, loaded.Family())

	row := []float64{1, 0.5, 3}
	assert.InDelta(t, f.PredictProba(row), loaded.PredictProba(row), 1e-12)
}

func TestSaveLoadBoostRoundTrip(t *testing.T) {
	x, y := separableData()
	b := TrainBoost(x, y, 42, nil)

	path := filepath.Join(t.TempDir(), BoostArtifact)
	require.NoError(t, SaveModel(path, b))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, FamilyBoost, loaded.Family())

	row := []float64{0, 0.5, 3}
	assert.InDelta(t, b.PredictProba(row), loaded.PredictProba(row), 1e-12)
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, common.ErrModelUnavailable)
}

func TestLoadModelUnknownFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weird.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"family":"svm","model":{}}`), 0o644))

	_, err := LoadModel(path)
	assert.ErrorContains(t, err, "unknown model family")
}

func TestMetadataRoundTrip(t *testing.T) {
	meta := Metadata{
		Version:      MetadataVersion,
		Features:     []string{"count", "cv", "mean_amt"},
		NSamples:     20,
		ClassBalance: ClassBalance{Pos: 10, Neg: 10},
	}

	path := filepath.Join(t.TempDir(), MetadataArtifact)
	require.NoError(t, SaveMetadata(path, meta))

	loaded, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestLoadMetadataMissingFile(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, common.ErrSchemaUnusable)
}

func TestLoadMetadataCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), MetadataArtifact)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadMetadata(path)
	assert.ErrorIs(t, err, common.ErrSchemaUnusable)
}

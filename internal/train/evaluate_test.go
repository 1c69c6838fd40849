package train

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thresholdModel predicts the first feature as the probability.
type thresholdModel struct{}

func (thresholdModel) PredictProba(row []float64) float64 { return row[0] }
func (thresholdModel) Family() string                     { return "stub" }

func TestEvaluate(t *testing.T) {
	x := [][]float64{
		{0.9}, // true positive
		{0.8}, // true positive
		{0.2}, // false negative
		{0.1}, // true negative
		{0.7}, // false positive
	}
	y := []int{1, 1, 1, 0, 0}

	r := Evaluate("stub", thresholdModel{}, x, y)

	assert.Equal(t, "stub", r.Model)
	assert.Equal(t, 5, r.NTest)
	assert.InDelta(t, 0.6, r.PosRateTest, 1e-9)
	assert.Equal(t, [2][2]int{{1, 1}, {1, 2}}, r.Confusion)
	assert.InDelta(t, 2.0/3.0, r.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, r.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, r.F1, 1e-9)
	assert.InDelta(t, 0.6, r.Accuracy, 1e-9)
}

func TestEvaluateEmptyHoldout(t *testing.T) {
	r := Evaluate("stub", thresholdModel{}, nil, nil)
	assert.Zero(t, r.NTest)
	assert.Zero(t, r.Accuracy)
	assert.Zero(t, r.F1)
}

func TestReportWrite(t *testing.T) {
	r := Evaluate("stub", thresholdModel{}, [][]float64{{0.9}}, []int{1})
	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, r.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

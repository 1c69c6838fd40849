package train

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/subscout/subscout/internal/mlmodel"
)

// Report summarizes holdout performance for one trained model.
type Report struct {
	Model       string    `json:"model"`
	Precision   float64   `json:"precision"`
	Recall      float64   `json:"recall"`
	F1          float64   `json:"f1"`
	Accuracy    float64   `json:"accuracy"`
	Confusion   [2][2]int `json:"confusion_matrix"` // [actual][predicted]
	NTest       int       `json:"n_test"`
	PosRateTest float64   `json:"pos_rate_test"`
}

// evalThreshold is the fixed cutoff used for holdout metrics. Deployment
// thresholds are a caller knob; evaluation uses the conventional midpoint.
const evalThreshold = 0.5

// Evaluate scores a model on the holdout set and computes binary metrics.
func Evaluate(name string, m mlmodel.Model, x [][]float64, y []int) Report {
	r := Report{Model: name, NTest: len(y)}

	var pos int
	for i, row := range x {
		prob := m.PredictProba(row)
		pred := 0
		if prob >= evalThreshold {
			pred = 1
		}
		r.Confusion[y[i]][pred]++
		pos += y[i]
	}
	if r.NTest > 0 {
		r.PosRateTest = float64(pos) / float64(r.NTest)
	}

	tp := float64(r.Confusion[1][1])
	fp := float64(r.Confusion[0][1])
	fn := float64(r.Confusion[1][0])
	tn := float64(r.Confusion[0][0])

	if tp+fp > 0 {
		r.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		r.Recall = tp / (tp + fn)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	if r.NTest > 0 {
		r.Accuracy = (tp + tn) / float64(r.NTest)
	}
	return r
}

// Write persists the report as a JSON metrics file.
func (r Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metrics report: %w", err)
	}
	return nil
}

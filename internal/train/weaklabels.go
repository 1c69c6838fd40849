// Package train derives weak training labels from recurrence features and
// fits the two subscription classifier families.
package train

import (
	"fmt"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/model"
)

// WeakLabel derives a binary training label from a feature vector, with no
// human annotation. The rules are stricter than the interactive heuristic
// to keep training precision high: positive textual evidence is mandatory,
// retail-like names are excluded, and either a long-span yearly charge
// (count >= 1 suffices there) or a stable short cadence is required.
func WeakLabel(cfg config.Detection, fv model.FeatureVector) int {
	reasonableAmt := fv.MeanAmount >= cfg.WeakAmountLow && fv.MeanAmount <= cfg.WeakAmountHigh
	positive := fv.BrandHit || fv.HintFlag
	notRetailish := !feature.HasRetailToken(fv.MerchantKey)

	yearly := fv.Cadence == model.CadenceYearly &&
		fv.SpanDays >= cfg.WeakMinSpanDays &&
		fv.Count >= 1
	cyclic := (fv.Cadence == model.CadenceWeekly ||
		fv.Cadence == model.CadenceBiweekly ||
		fv.Cadence == model.CadenceMonthly) &&
		fv.Count >= 2 && fv.CV <= cfg.WeakMaxCV

	if reasonableAmt && (yearly || cyclic) && positive && notRetailish {
		return 1
	}
	return 0
}

// Labels derives weak labels for a whole feature table. A single-class
// result is fatal: there is no signal to learn from, and training must not
// silently emit a degenerate model.
func Labels(cfg config.Detection, feats []model.FeatureVector) ([]int, error) {
	if len(feats) == 0 {
		return nil, common.ErrNoTransactions
	}
	labels := make([]int, len(feats))
	var pos int
	for i, fv := range feats {
		labels[i] = WeakLabel(cfg, fv)
		pos += labels[i]
	}
	if pos == 0 || pos == len(labels) {
		return nil, fmt.Errorf("%w: %d of %d positive; provide more diverse data",
			common.ErrSingleClassLabels, pos, len(labels))
	}
	return labels, nil
}

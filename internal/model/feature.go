package model

// FeatureNames is the canonical column order for feature matrices. Trained
// models persist this list in their metadata sidecar; scoring aligns against
// the persisted copy, falling back to this slice only when the sidecar is
// unusable.
var FeatureNames = []string{
	"brand_hit", "hint_flag", "neg_name_flag",
	"count", "span_days", "med_gap", "gap_std",
	"mean_amt", "cv", "debit_ratio",
	"is_weekly", "is_biweekly", "is_monthly", "is_quarterly", "is_yearly",
}

// FeatureVector holds the per-merchant-group recurrence features. It is
// derived from a group's transactions and never mutated in place.
type FeatureVector struct {
	MerchantKey string
	BrandHit    bool
	HintFlag    bool
	NegNameFlag bool
	Count       int
	SpanDays    int
	MedianGap   float64
	GapStddev   float64
	MeanAmount  float64
	CV          float64
	DebitRatio  float64
	Cadence     Cadence
}

// Columns returns the vector's values keyed by feature name. Keys match
// FeatureNames exactly; schema alignment indexes into this map.
func (f *FeatureVector) Columns() map[string]float64 {
	b2f := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	return map[string]float64{
		"brand_hit":     b2f(f.BrandHit),
		"hint_flag":     b2f(f.HintFlag),
		"neg_name_flag": b2f(f.NegNameFlag),
		"count":         float64(f.Count),
		"span_days":     float64(f.SpanDays),
		"med_gap":       f.MedianGap,
		"gap_std":       f.GapStddev,
		"mean_amt":      f.MeanAmount,
		"cv":            f.CV,
		"debit_ratio":   f.DebitRatio,
		"is_weekly":     b2f(f.Cadence == CadenceWeekly),
		"is_biweekly":   b2f(f.Cadence == CadenceBiweekly),
		"is_monthly":    b2f(f.Cadence == CadenceMonthly),
		"is_quarterly":  b2f(f.Cadence == CadenceQuarterly),
		"is_yearly":     b2f(f.Cadence == CadenceYearly),
	}
}

// Row materializes the vector in the default FeatureNames order.
func (f *FeatureVector) Row() []float64 {
	cols := f.Columns()
	row := make([]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		row[i] = cols[name]
	}
	return row
}

package model

import "time"

// Cadence is the inferred periodicity of a merchant's charges.
type Cadence string

// Recognized cadences. CadenceNone means the median gap matched no window.
const (
	CadenceNone      Cadence = ""
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
)

// Days returns the nominal cycle length. Unknown cadences default to a
// monthly cycle, matching how next-expected dates are projected.
func (c Cadence) Days() int {
	switch c {
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	case CadenceMonthly:
		return 30
	case CadenceQuarterly:
		return 90
	case CadenceYearly:
		return 365
	default:
		return 30
	}
}

// SubscriptionCandidate is the per-merchant-group output of the heuristic
// classification path.
type SubscriptionCandidate struct {
	LastDate       time.Time
	NextExpected   time.Time
	MerchantKey    string
	Brand          string
	Category       string
	Cadence        Cadence
	Count          int
	MeanAmount     float64
	CV             float64
	IsRecurring    bool
	IsSubscription bool
	MissedCycle    bool
}

// ScoredCandidate is the per-merchant-group output of the model scoring
// path. Probability is post-filter; RawProbability is the model's output
// before the retail safety filter ran.
type ScoredCandidate struct {
	MerchantKey    string
	Brand          string
	Category       string
	Count          int
	MeanAmount     float64
	Probability    float64
	RawProbability float64
	IsSubscription bool
	Filtered       bool // true when the retail safety filter suppressed it
}

// AnomalyFlag marks a single transaction whose amount is an outlier within
// its merchant group.
type AnomalyFlag struct {
	Transaction Transaction
	MerchantKey string
	Score       float64 // detector-specific: |z| or isolation score
	Method      string  // "zscore" or "isoforest"
}

// Package detect implements the rule-based classification path: the
// heuristic subscription detector, the missed-cycle check, and per-merchant
// amount anomaly flagging.
package detect

import (
	"sort"
	"time"

	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/model"
)

// Heuristic classifies merchant groups as recurring/subscription using
// named thresholds. It is pure: the reference time is always injected.
type Heuristic struct {
	cfg config.Detection
}

// NewHeuristic creates a classifier with the given thresholds.
func NewHeuristic(cfg config.Detection) *Heuristic {
	return &Heuristic{cfg: cfg}
}

// Classify decides a single group's status as of the given reference time.
//
// A group is recurring when it has enough occurrences, a stable amount, and
// a weekly/biweekly/monthly/yearly cadence. Quarterly is excluded: too
// sparse to trust without more evidence. A recurring group is a
// subscription when it carries textual evidence (brand or hint), or when a
// monthly cadence lands in the plausible subscription price band even
// without evidence. That band is the main leniency/strictness knob.
func (h *Heuristic) Classify(g feature.Group, fv model.FeatureVector, asOf time.Time) model.SubscriptionCandidate {
	cadence := feature.CadenceFor(fv.MedianGap, feature.YearlyTolHeuristic)

	cadenceOK := cadence == model.CadenceWeekly ||
		cadence == model.CadenceBiweekly ||
		cadence == model.CadenceMonthly ||
		cadence == model.CadenceYearly
	isRecurring := fv.Count >= h.cfg.MinOccurrences &&
		fv.CV <= h.cfg.MaxCV &&
		cadenceOK

	inBand := fv.MeanAmount >= h.cfg.AmountBandLow && fv.MeanAmount <= h.cfg.AmountBandHigh
	isSubscription := isRecurring &&
		(fv.BrandHit || fv.HintFlag || (inBand && cadence == model.CadenceMonthly))

	var brandName, category string
	for _, tx := range g.Transactions {
		if tx.Brand != "" {
			brandName = tx.Brand
			category = tx.Category
			break
		}
	}

	c := model.SubscriptionCandidate{
		MerchantKey:    g.Key,
		Brand:          brandName,
		Category:       category,
		Cadence:        cadence,
		Count:          fv.Count,
		MeanAmount:     fv.MeanAmount,
		CV:             fv.CV,
		IsRecurring:    isRecurring,
		IsSubscription: isSubscription,
	}

	if n := len(g.Transactions); n > 0 {
		c.LastDate = g.Transactions[n-1].Date
		c.NextExpected = c.LastDate.AddDate(0, 0, cadence.Days())
	}

	// Missed cycle only applies to confirmed subscriptions with a known
	// last charge. The 1.5x grace period is integer-truncated in days.
	if isSubscription && !c.LastDate.IsZero() {
		graceDays := int(h.cfg.MissedCycleGrace * float64(cadence.Days()))
		c.MissedCycle = asOf.After(c.LastDate.AddDate(0, 0, graceDays))
	}

	return c
}

// Rank orders candidates for presentation: subscriptions first, then by
// charge count, then mean amount, with the merchant key as a final
// deterministic tiebreak.
func Rank(cands []model.SubscriptionCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.IsSubscription != b.IsSubscription {
			return a.IsSubscription
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.MeanAmount != b.MeanAmount {
			return a.MeanAmount > b.MeanAmount
		}
		return a.MerchantKey < b.MerchantKey
	})
}

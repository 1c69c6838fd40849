// Package feature computes per-merchant-group recurrence features: cadence,
// amount stability, and the evidentiary flags the classifiers decide on.
package feature

import (
	"math"
	"sort"
	"strings"

	"github.com/subscout/subscout/internal/model"
)

// hintWords are subscription-language keywords searched for in the group's
// combined description text.
var hintWords = []string{
	"subscription", "subs", "member", "membership", "premium",
	"plus", "plan", "autopay", "auto pay", "renewal",
}

// retailTokens mark merchants that recur without being subscriptions: gas
// stations, groceries, warehouse clubs. Used as a negative signal by the
// weak labeler and the scorer's safety filter.
var retailTokens = []string{
	"gas", "fuel", "station", "walmart", "target", "mcdonald",
	"grocery", "store", "supermarket", "liquor", "shell", "chevron",
	"7-eleven", "7eleven", "costco", "aldi", "kroger", "tesco",
	"carrefour", "spar",
}

// HasRetailToken reports whether the merchant key contains a token from the
// commonly-recurring-but-not-subscription list.
func HasRetailToken(merchantKey string) bool {
	key := strings.ToLower(merchantKey)
	for _, w := range retailTokens {
		if strings.Contains(key, w) {
			return true
		}
	}
	return false
}

// hasHint reports whether any description in the blob carries
// subscription language.
func hasHint(descBlob string) bool {
	for _, w := range hintWords {
		if strings.Contains(descBlob, w) {
			return true
		}
	}
	return false
}

// Cadence tolerance windows. The yearly window differs between the feature
// path and the heuristic detector; both tolerances are part of the trained
// models' input contract and must not drift.
const (
	YearlyTolFeatures  = 15
	YearlyTolHeuristic = 10
)

// CadenceFor classifies a median inter-charge gap against the fixed
// reference cycles. A monthly label is also granted for any literal gap of
// 28-31 days. Returns CadenceNone when nothing matches.
func CadenceFor(medianGap float64, yearlyTol float64) model.Cadence {
	windows := []struct {
		label  model.Cadence
		base   float64
		wiggle float64
	}{
		{model.CadenceWeekly, 7, 1},
		{model.CadenceBiweekly, 14, 2},
		{model.CadenceMonthly, 30, 3},
		{model.CadenceQuarterly, 90, 7},
		{model.CadenceYearly, 365, yearlyTol},
	}
	for _, w := range windows {
		if math.Abs(medianGap-w.base) <= w.wiggle {
			return w.label
		}
		if w.label == model.CadenceMonthly && medianGap >= 28 && medianGap <= 31 {
			return w.label
		}
	}
	return model.CadenceNone
}

// Group is the set of transactions sharing one post-grouping merchant key,
// sorted by date.
type Group struct {
	Key          string
	Transactions []model.Transaction
}

// GroupByMerchant partitions resolved transactions by merchant key, in
// first-seen key order, each group date-sorted. Empty keys form their own
// group rather than vanishing; they are simply never fuzzy-merged upstream.
func GroupByMerchant(txns []model.Transaction) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, tx := range txns {
		i, ok := index[tx.MerchantKey]
		if !ok {
			i = len(groups)
			index[tx.MerchantKey] = i
			groups = append(groups, Group{Key: tx.MerchantKey})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	for i := range groups {
		sort.SliceStable(groups[i].Transactions, func(a, b int) bool {
			return groups[i].Transactions[a].Date.Before(groups[i].Transactions[b].Date)
		})
	}
	return groups
}

// cvSentinel forces "unstable" when the mean amount is zero and the
// coefficient of variation is undefined.
const cvSentinel = 999.0

// Extract computes the group's feature vector. Degenerate statistics
// (single transaction, zero mean) resolve to sentinels, never NaN.
func Extract(g Group) model.FeatureVector {
	txns := g.Transactions

	gaps := make([]float64, 0, len(txns))
	for i := 1; i < len(txns); i++ {
		gaps = append(gaps, txns[i].Date.Sub(txns[i-1].Date).Hours()/24)
	}
	medGap := median(gaps)
	gapStd := popStddev(gaps)

	amounts := make([]float64, len(txns))
	debits := 0
	var descBlob strings.Builder
	brandHit := false
	for i, tx := range txns {
		amounts[i] = tx.AbsAmount()
		if tx.IsDebit() {
			debits++
		}
		if tx.Brand != "" {
			brandHit = true
		}
		descBlob.WriteString(strings.ToLower(tx.Description))
		descBlob.WriteByte(' ')
	}

	meanAmt := mean(amounts)
	cv := cvSentinel
	if meanAmt > 0 {
		cv = popStddev(amounts) / (meanAmt + 1e-9)
	}

	spanDays := 0
	if len(txns) > 1 {
		spanDays = int(txns[len(txns)-1].Date.Sub(txns[0].Date).Hours() / 24)
	}

	debitRatio := 0.0
	if len(txns) > 0 {
		debitRatio = float64(debits) / float64(len(txns))
	}

	return model.FeatureVector{
		MerchantKey: g.Key,
		BrandHit:    brandHit,
		HintFlag:    hasHint(descBlob.String()),
		NegNameFlag: HasRetailToken(g.Key),
		Count:       len(txns),
		SpanDays:    spanDays,
		MedianGap:   medGap,
		GapStddev:   gapStd,
		MeanAmount:  meanAmt,
		CV:          cv,
		DebitRatio:  debitRatio,
		Cadence:     CadenceFor(medGap, YearlyTolFeatures),
	}
}

// BuildTable extracts one feature vector per merchant group, preserving
// group order.
func BuildTable(groups []Group) []model.FeatureVector {
	table := make([]model.FeatureVector, len(groups))
	for i, g := range groups {
		table[i] = Extract(g)
	}
	return table
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// popStddev is the population standard deviation (ddof=0).
func popStddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscout/subscout/internal/config"
	"github.com/subscout/subscout/internal/feature"
	"github.com/subscout/subscout/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyGroup(key, brand, desc string, amounts []float64) feature.Group {
	g := feature.Group{Key: key}
	date := day(2025, 1, 2)
	gaps := []int{0, 30, 31, 30, 30, 31}
	for i, amt := range amounts {
		date = date.AddDate(0, 0, gaps[i])
		g.Transactions = append(g.Transactions, model.Transaction{
			MerchantKey: key,
			Brand:       brand,
			Date:        date,
			Amount:      -amt,
			Description: desc,
		})
	}
	return g
}

func classify(t *testing.T, g feature.Group, asOf time.Time) model.SubscriptionCandidate {
	t.Helper()
	fv := feature.Extract(g)
	return NewHeuristic(config.Default()).Classify(g, fv, asOf)
}

func TestClassifyMonthlyBrandIsSubscription(t *testing.T) {
	g := monthlyGroup("netflix com", "netflix", "NETFLIX.COM Subscription",
		[]float64{15.99, 15.99, 16.49, 15.99})

	c := classify(t, g, day(2025, 4, 10))

	assert.True(t, c.IsRecurring)
	assert.True(t, c.IsSubscription)
	assert.Equal(t, model.CadenceMonthly, c.Cadence)
	assert.Equal(t, "netflix", c.Brand)
	assert.False(t, c.MissedCycle)
	assert.Equal(t, day(2025, 4, 3), c.LastDate)
	assert.Equal(t, day(2025, 5, 3), c.NextExpected)
}

func TestClassifyIrregularSpendingIsNotRecurring(t *testing.T) {
	g := feature.Group{Key: "whole foods market"}
	for _, tc := range []struct {
		d   time.Time
		amt float64
	}{
		{day(2025, 1, 3), 84.12},
		{day(2025, 1, 6), 23.50},
		{day(2025, 1, 15), 112.40},
		{day(2025, 1, 20), 45.00},
	} {
		g.Transactions = append(g.Transactions, model.Transaction{
			MerchantKey: g.Key, Date: tc.d, Amount: -tc.amt,
			Description: "WHOLE FOODS MARKET",
		})
	}

	c := classify(t, g, day(2025, 2, 1))
	assert.False(t, c.IsRecurring)
	assert.False(t, c.IsSubscription)
}

func TestClassifyTooFewOccurrences(t *testing.T) {
	g := monthlyGroup("hulu", "hulu", "HULU", []float64{17.99, 17.99})

	c := classify(t, g, day(2025, 3, 1))
	assert.False(t, c.IsRecurring, "two charges are not enough history")
	assert.False(t, c.IsSubscription)
}

func TestClassifyMonthlyInBandWithoutEvidence(t *testing.T) {
	g := monthlyGroup("quiet software vendor", "", "QSV*BILLING",
		[]float64{12.99, 12.99, 12.99, 12.99})

	c := classify(t, g, day(2025, 4, 10))
	assert.True(t, c.IsRecurring)
	assert.True(t, c.IsSubscription, "monthly cadence in the price band counts as a subscription")
}

func TestClassifyRecurringOutOfBandWithoutEvidence(t *testing.T) {
	g := monthlyGroup("fancy rent collector", "", "FRC PAYMENT",
		[]float64{1800, 1800, 1800, 1800})

	c := classify(t, g, day(2026, 4, 10))
	assert.True(t, c.IsRecurring)
	assert.False(t, c.IsSubscription)
	assert.False(t, c.MissedCycle, "missed cycle only applies to subscriptions")
}

func TestClassifyMissedCycle(t *testing.T) {
	g := monthlyGroup("netflix com", "netflix", "NETFLIX.COM Subscription",
		[]float64{15.99, 15.99, 15.99, 15.99})
	last := g.Transactions[len(g.Transactions)-1].Date

	// Grace period is 1.5 cycles, truncated to whole days: 45 for monthly.
	onEdge := classify(t, g, last.AddDate(0, 0, 45))
	assert.False(t, onEdge.MissedCycle)

	overdue := classify(t, g, last.AddDate(0, 0, 46))
	assert.True(t, overdue.IsSubscription)
	assert.True(t, overdue.MissedCycle)
}

func TestRank(t *testing.T) {
	cands := []model.SubscriptionCandidate{
		{MerchantKey: "b", IsSubscription: false, Count: 9, MeanAmount: 50},
		{MerchantKey: "a", IsSubscription: true, Count: 3, MeanAmount: 10},
		{MerchantKey: "d", IsSubscription: true, Count: 5, MeanAmount: 10},
		{MerchantKey: "c", IsSubscription: true, Count: 5, MeanAmount: 10},
	}

	Rank(cands)

	keys := make([]string, len(cands))
	for i, c := range cands {
		keys[i] = c.MerchantKey
	}
	require.Equal(t, []string{"c", "d", "a", "b"}, keys)

	// Deterministic on repeat.
	Rank(cands)
	for i, c := range cands {
		assert.Equal(t, keys[i], c.MerchantKey)
	}
}

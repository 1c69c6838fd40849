package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscout/subscout/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCadenceFor(t *testing.T) {
	tests := []struct {
		name      string
		medianGap float64
		yearlyTol float64
		want      model.Cadence
	}{
		{"exact weekly", 7, YearlyTolFeatures, model.CadenceWeekly},
		{"weekly lower edge", 6, YearlyTolFeatures, model.CadenceWeekly},
		{"weekly upper edge", 8, YearlyTolFeatures, model.CadenceWeekly},
		{"biweekly fractional gap", 12.5, YearlyTolFeatures, model.CadenceBiweekly},
		{"monthly exact", 30, YearlyTolFeatures, model.CadenceMonthly},
		{"monthly window low", 27.5, YearlyTolFeatures, model.CadenceMonthly},
		{"monthly literal 28", 28, YearlyTolFeatures, model.CadenceMonthly},
		{"monthly literal 31", 31, YearlyTolFeatures, model.CadenceMonthly},
		{"monthly window high", 33, YearlyTolFeatures, model.CadenceMonthly},
		{"gap between monthly and quarterly", 45, YearlyTolFeatures, model.CadenceNone},
		{"quarterly low edge", 83, YearlyTolFeatures, model.CadenceQuarterly},
		{"quarterly high edge", 97, YearlyTolFeatures, model.CadenceQuarterly},
		{"yearly inside wide tolerance", 353, YearlyTolFeatures, model.CadenceYearly},
		{"yearly outside narrow tolerance", 353, YearlyTolHeuristic, model.CadenceNone},
		{"yearly inside narrow tolerance", 358, YearlyTolHeuristic, model.CadenceYearly},
		{"zero gap", 0, YearlyTolFeatures, model.CadenceNone},
		{"no cycle", 20, YearlyTolFeatures, model.CadenceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CadenceFor(tt.medianGap, tt.yearlyTol))
		})
	}
}

func TestHasRetailToken(t *testing.T) {
	assert.True(t, HasRetailToken("shell gas station"))
	assert.True(t, HasRetailToken("whole foods store"))
	assert.True(t, HasRetailToken("COSTCO WHOLESALE"))
	assert.False(t, HasRetailToken("netflix com"))
	assert.False(t, HasRetailToken(""))
}

func TestGroupByMerchant(t *testing.T) {
	txns := []model.Transaction{
		{MerchantKey: "netflix com", Date: day(2025, 3, 1), Amount: -15.99},
		{MerchantKey: "spotify", Date: day(2025, 2, 10), Amount: -9.99},
		{MerchantKey: "netflix com", Date: day(2025, 2, 1), Amount: -15.99},
		{MerchantKey: "", Date: day(2025, 1, 5), Amount: -3.50},
	}

	groups := GroupByMerchant(txns)
	require.Len(t, groups, 3)

	// First-seen key order.
	assert.Equal(t, "netflix com", groups[0].Key)
	assert.Equal(t, "spotify", groups[1].Key)
	assert.Equal(t, "", groups[2].Key)

	// Each group sorted by date.
	require.Len(t, groups[0].Transactions, 2)
	assert.Equal(t, day(2025, 2, 1), groups[0].Transactions[0].Date)
	assert.Equal(t, day(2025, 3, 1), groups[0].Transactions[1].Date)

	// Empty keys form their own group.
	require.Len(t, groups[2].Transactions, 1)
}

func TestExtractMonthlySubscription(t *testing.T) {
	g := Group{
		Key: "netflix com",
		Transactions: []model.Transaction{
			{MerchantKey: "netflix com", Brand: "netflix", Date: day(2025, 1, 2), Amount: -15.99, Description: "NETFLIX.COM Subscription"},
			{MerchantKey: "netflix com", Brand: "netflix", Date: day(2025, 2, 1), Amount: -15.99, Description: "NETFLIX.COM Subscription"},
			{MerchantKey: "netflix com", Brand: "netflix", Date: day(2025, 3, 4), Amount: -16.49, Description: "NETFLIX.COM Subscription"},
			{MerchantKey: "netflix com", Brand: "netflix", Date: day(2025, 4, 3), Amount: -15.99, Description: "NETFLIX.COM Subscription"},
		},
	}

	fv := Extract(g)

	assert.Equal(t, "netflix com", fv.MerchantKey)
	assert.Equal(t, 4, fv.Count)
	assert.Equal(t, 91, fv.SpanDays)
	assert.Equal(t, model.CadenceMonthly, fv.Cadence)
	assert.InDelta(t, 30, fv.MedianGap, 0.01)
	assert.InDelta(t, 16.115, fv.MeanAmount, 0.001)
	assert.Less(t, fv.CV, 0.05, "near-constant amounts must yield a tiny CV")
	assert.True(t, fv.BrandHit)
	assert.True(t, fv.HintFlag)
	assert.False(t, fv.NegNameFlag)
	assert.InDelta(t, 1.0, fv.DebitRatio, 1e-9)
}

func TestExtractSingleTransaction(t *testing.T) {
	g := Group{
		Key: "corner bakery",
		Transactions: []model.Transaction{
			{MerchantKey: "corner bakery", Date: day(2025, 5, 1), Amount: -8.40, Description: "CORNER BAKERY"},
		},
	}

	fv := Extract(g)

	assert.Equal(t, 1, fv.Count)
	assert.Equal(t, 0, fv.SpanDays)
	assert.Zero(t, fv.MedianGap)
	assert.Zero(t, fv.GapStddev)
	assert.Equal(t, model.CadenceNone, fv.Cadence)
}

func TestExtractZeroMeanUsesSentinelCV(t *testing.T) {
	g := Group{
		Key: "mystery merchant",
		Transactions: []model.Transaction{
			{MerchantKey: "mystery merchant", Date: day(2025, 1, 1), Amount: 0},
			{MerchantKey: "mystery merchant", Date: day(2025, 2, 1), Amount: 0},
		},
	}

	fv := Extract(g)
	assert.Equal(t, 999.0, fv.CV)
}

func TestExtractMixedDebitsAndCredits(t *testing.T) {
	g := Group{
		Key: "gym refund saga",
		Transactions: []model.Transaction{
			{MerchantKey: "gym refund saga", Date: day(2025, 1, 1), Amount: -40},
			{MerchantKey: "gym refund saga", Date: day(2025, 2, 1), Amount: 40},
			{MerchantKey: "gym refund saga", Date: day(2025, 3, 1), Amount: -40},
			{MerchantKey: "gym refund saga", Date: day(2025, 4, 1), Amount: -40},
		},
	}

	fv := Extract(g)
	assert.InDelta(t, 0.75, fv.DebitRatio, 1e-9)
	assert.InDelta(t, 40, fv.MeanAmount, 1e-9, "amount stats use absolute values")
	assert.Less(t, fv.CV, 0.01)
}

func TestBuildTablePreservesOrder(t *testing.T) {
	groups := []Group{
		{Key: "b", Transactions: []model.Transaction{{MerchantKey: "b", Date: day(2025, 1, 1), Amount: -1}}},
		{Key: "a", Transactions: []model.Transaction{{MerchantKey: "a", Date: day(2025, 1, 2), Amount: -2}}},
	}
	table := BuildTable(groups)
	require.Len(t, table, 2)
	assert.Equal(t, "b", table[0].MerchantKey)
	assert.Equal(t, "a", table[1].MerchantKey)
}

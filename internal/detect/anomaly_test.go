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

func amountGroup(key string, amounts []float64) feature.Group {
	g := feature.Group{Key: key}
	date := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, amt := range amounts {
		g.Transactions = append(g.Transactions, model.Transaction{
			MerchantKey: key,
			Date:        date,
			Amount:      -amt,
			Description: key,
		})
		date = date.AddDate(0, 0, 30)
	}
	return g
}

func TestFlagIsolationForestFindsOutlier(t *testing.T) {
	amounts := []float64{15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 15.99, 500.00}
	g := amountGroup("netflix com", amounts)

	flags := NewFlagger(config.Default()).Flag(g)

	require.Len(t, flags, 1)
	assert.Equal(t, methodIsoForest, flags[0].Method)
	assert.InDelta(t, 500.00, flags[0].Transaction.AbsAmount(), 1e-9)
	assert.GreaterOrEqual(t, flags[0].Score, 0.6)
}

// The forest is seeded, so repeated runs over the same amounts return
// identical flags and scores.
func TestFlagDeterministic(t *testing.T) {
	amounts := []float64{20, 20, 21, 20, 19, 20, 20, 350}
	g := amountGroup("mystery merchant", amounts)
	flagger := NewFlagger(config.Default())

	first := flagger.Flag(g)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, flagger.Flag(g))
	}
}

// Below the forest sample floor the z-score fallback applies. With a
// population stddev and a cutoff of 3, fewer than six points can never put
// a lone outlier past the cutoff; small groups are deliberately quiet.
func TestFlagSmallGroupFallsBackToZScore(t *testing.T) {
	g := amountGroup("corner bakery", []float64{10, 10, 10, 10, 1000})

	flags := NewFlagger(config.Default()).Flag(g)
	assert.Empty(t, flags)
}

func TestFlagConstantAmountsNeverFlagged(t *testing.T) {
	flagger := NewFlagger(config.Default())

	// Small path: stddev floor of 1.0 keeps identical amounts from
	// dividing by zero.
	small := amountGroup("gym", []float64{40, 40, 40})
	assert.Empty(t, flagger.Flag(small))

	// Forest path: a constant sample collapses every tree to its root and
	// all scores to exactly 0.5, below the cutoff.
	large := amountGroup("gym", []float64{40, 40, 40, 40, 40, 40, 40, 40})
	assert.Empty(t, flagger.Flag(large))
}

func TestFlagEmptyGroup(t *testing.T) {
	flags := NewFlagger(config.Default()).Flag(feature.Group{Key: "nothing"})
	assert.Empty(t, flags)
}

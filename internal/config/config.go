// Package config centralizes the engine's tunable thresholds. Several of
// these are precision/recall knobs rather than fixed truths; they are
// surfaced through viper so operators can tune them per deployment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/subscout/subscout/internal/common"
)

// Detection holds every threshold used by the classification and scoring
// paths. The zero value is not usable; construct via Default or Load.
type Detection struct {
	// MinOccurrences is the minimum charge count before a merchant can be
	// considered recurring.
	MinOccurrences int
	// MaxCV is the maximum coefficient of variation for a "stable" amount.
	MaxCV float64
	// AmountBandLow/High bound the plausible subscription price range used
	// when a monthly recurrence has no textual evidence.
	AmountBandLow  float64
	AmountBandHigh float64
	// FuzzyThreshold is the token-set similarity (0-100) at which two
	// merchant keys merge into one group.
	FuzzyThreshold int
	// ScoreThreshold is the probability cutoff for the model scoring path.
	ScoreThreshold float64
	// DampingFactor multiplies the probability of retail-like merchants
	// suppressed by the safety post-filter.
	DampingFactor float64
	// MissedCycleGrace scales the cadence length before a subscription
	// counts as overdue.
	MissedCycleGrace float64
	// WeakAmountLow/High bound the amounts eligible for a positive weak label.
	WeakAmountLow  float64
	WeakAmountHigh float64
	// WeakMaxCV is the stability bound on the weekly/biweekly/monthly
	// weak-label rule.
	WeakMaxCV float64
	// WeakMinSpanDays is the minimum observation span for the yearly
	// weak-label rule.
	WeakMinSpanDays int
	// ForestMinSamples is the group size at which anomaly detection switches
	// from the z-score fallback to the isolation forest.
	ForestMinSamples int
	// ZScoreCutoff flags |z| at or above this value in the fallback detector.
	ZScoreCutoff float64
}

// Default returns the stock thresholds the detectors were tuned against.
func Default() Detection {
	return Detection{
		MinOccurrences:   3,
		MaxCV:            0.25,
		AmountBandLow:    4.0,
		AmountBandHigh:   250.0,
		FuzzyThreshold:   88,
		ScoreThreshold:   0.65,
		DampingFactor:    0.2,
		MissedCycleGrace: 1.5,
		WeakAmountLow:    1.0,
		WeakAmountHigh:   300.0,
		WeakMaxCV:        0.35,
		WeakMinSpanDays:  300,
		ForestMinSamples: 6,
		ZScoreCutoff:     3.0,
	}
}

// SetDefaults registers the stock thresholds with viper so config files and
// SUBSCOUT_* environment variables can override them individually.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("detection.min_occurrences", d.MinOccurrences)
	v.SetDefault("detection.max_cv", d.MaxCV)
	v.SetDefault("detection.amount_band_low", d.AmountBandLow)
	v.SetDefault("detection.amount_band_high", d.AmountBandHigh)
	v.SetDefault("detection.fuzzy_threshold", d.FuzzyThreshold)
	v.SetDefault("detection.score_threshold", d.ScoreThreshold)
	v.SetDefault("detection.damping_factor", d.DampingFactor)
	v.SetDefault("detection.missed_cycle_grace", d.MissedCycleGrace)
	v.SetDefault("detection.weak_amount_low", d.WeakAmountLow)
	v.SetDefault("detection.weak_amount_high", d.WeakAmountHigh)
	v.SetDefault("detection.weak_max_cv", d.WeakMaxCV)
	v.SetDefault("detection.weak_min_span_days", d.WeakMinSpanDays)
	v.SetDefault("detection.forest_min_samples", d.ForestMinSamples)
	v.SetDefault("detection.zscore_cutoff", d.ZScoreCutoff)
}

// Load reads the detection thresholds out of viper and validates them.
func Load(v *viper.Viper) (Detection, error) {
	d := Detection{
		MinOccurrences:   v.GetInt("detection.min_occurrences"),
		MaxCV:            v.GetFloat64("detection.max_cv"),
		AmountBandLow:    v.GetFloat64("detection.amount_band_low"),
		AmountBandHigh:   v.GetFloat64("detection.amount_band_high"),
		FuzzyThreshold:   v.GetInt("detection.fuzzy_threshold"),
		ScoreThreshold:   v.GetFloat64("detection.score_threshold"),
		DampingFactor:    v.GetFloat64("detection.damping_factor"),
		MissedCycleGrace: v.GetFloat64("detection.missed_cycle_grace"),
		WeakAmountLow:    v.GetFloat64("detection.weak_amount_low"),
		WeakAmountHigh:   v.GetFloat64("detection.weak_amount_high"),
		WeakMaxCV:        v.GetFloat64("detection.weak_max_cv"),
		WeakMinSpanDays:  v.GetInt("detection.weak_min_span_days"),
		ForestMinSamples: v.GetInt("detection.forest_min_samples"),
		ZScoreCutoff:     v.GetFloat64("detection.zscore_cutoff"),
	}
	if err := d.Validate(); err != nil {
		return Detection{}, err
	}
	return d, nil
}

// Validate rejects threshold combinations that would make the detectors
// degenerate.
func (d Detection) Validate() error {
	if d.MinOccurrences < 1 {
		return fmt.Errorf("%w: min_occurrences must be >= 1, got %d", common.ErrInvalidConfig, d.MinOccurrences)
	}
	if d.FuzzyThreshold < 0 || d.FuzzyThreshold > 100 {
		return fmt.Errorf("%w: fuzzy_threshold must be in [0,100], got %d", common.ErrInvalidConfig, d.FuzzyThreshold)
	}
	if d.ScoreThreshold < 0 || d.ScoreThreshold > 1 {
		return fmt.Errorf("%w: score_threshold must be in [0,1], got %v", common.ErrInvalidConfig, d.ScoreThreshold)
	}
	if d.AmountBandLow > d.AmountBandHigh {
		return fmt.Errorf("%w: amount band is inverted (%v > %v)", common.ErrInvalidConfig, d.AmountBandLow, d.AmountBandHigh)
	}
	if d.WeakAmountLow > d.WeakAmountHigh {
		return fmt.Errorf("%w: weak label amount band is inverted (%v > %v)", common.ErrInvalidConfig, d.WeakAmountLow, d.WeakAmountHigh)
	}
	if d.MissedCycleGrace < 1 {
		return fmt.Errorf("%w: missed_cycle_grace must be >= 1, got %v", common.ErrInvalidConfig, d.MissedCycleGrace)
	}
	return nil
}

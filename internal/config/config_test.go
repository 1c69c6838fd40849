package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscout/subscout/internal/common"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	d, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}

func TestLoadOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("detection.min_occurrences", 5)
	v.Set("detection.score_threshold", 0.8)

	d, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5, d.MinOccurrences)
	assert.InDelta(t, 0.8, d.ScoreThreshold, 1e-9)
	assert.InDelta(t, Default().MaxCV, d.MaxCV, 1e-9, "untouched keys keep their defaults")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Detection)
	}{
		{"zero min occurrences", func(d *Detection) { d.MinOccurrences = 0 }},
		{"fuzzy threshold above 100", func(d *Detection) { d.FuzzyThreshold = 101 }},
		{"negative fuzzy threshold", func(d *Detection) { d.FuzzyThreshold = -1 }},
		{"score threshold above 1", func(d *Detection) { d.ScoreThreshold = 1.2 }},
		{"inverted amount band", func(d *Detection) { d.AmountBandLow = 500 }},
		{"inverted weak band", func(d *Detection) { d.WeakAmountLow = 500 }},
		{"grace below one cycle", func(d *Detection) { d.MissedCycleGrace = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Default()
			tt.mutate(&d)
			err := d.Validate()
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("detection.fuzzy_threshold", 400)

	_, err := Load(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

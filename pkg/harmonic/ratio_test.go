package harmonic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/harmonic/pkg/types"
)

func TestValidateRatio(t *testing.T) {
	tests := []struct {
		name      string
		actual    float64
		target    float64
		tolerance float64
		valid     bool
	}{
		{"exact match", 0.618, 0.618, 0.05, true},
		{"inside band", 0.64, 0.618, 0.05, true},
		{"outside band", 0.70, 0.618, 0.05, false},
		{"far off", 1.618, 0.618, 0.05, false},
		{"exactly on the boundary", 2.5, 2.0, 0.25, true},
		{"just past the boundary", 2.5000001, 2.0, 0.25, false},
		{"lower edge inside", 1.5, 2.0, 0.25, true},
		{"lower edge outside", 1.4999999, 2.0, 0.25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateRatio(types.RatioABXA, tt.actual, tt.target, tt.tolerance)
			assert.Equal(t, tt.valid, r.Valid)
			assert.True(t, r.Deviation >= 0, "deviation is never negative")
			assert.Equal(t, tt.actual, r.Actual)
			assert.Equal(t, tt.target, r.Target)
		})
	}
}

func TestValidateRatio_Deviation(t *testing.T) {
	r := ValidateRatio(types.RatioBCAB, 0.6489, 0.618, 0.05)
	assert.InDelta(t, 0.05, r.Deviation, 1e-9)
}

func TestLegRatio(t *testing.T) {
	ratio, ok := legRatio(100, 161.8, 200, 100)
	assert.True(t, ok)
	assert.InDelta(t, 0.618, ratio, 1e-9)

	// direction of the legs must not matter
	ratio, ok = legRatio(161.8, 100, 100, 200)
	assert.True(t, ok)
	assert.InDelta(t, 0.618, ratio, 1e-9)
}

func TestLegRatio_ZeroDenominator(t *testing.T) {
	_, ok := legRatio(100, 120, 50, 50)
	assert.False(t, ok, "zero length denominator leg is undefined")
}

func TestScoreRatios(t *testing.T) {
	ratios := []types.FibonacciRatio{
		{Deviation: 0.00, Valid: true},
		{Deviation: 0.02, Valid: true},
		{Deviation: 0.04, Valid: true},
		{Deviation: 0.50, Valid: false},
	}

	validation, confidence := scoreRatios(ratios)
	assert.InDelta(t, 0.98, validation, 1e-9, "mean of 1-deviation over the valid ratios only")
	assert.InDelta(t, 75.0, confidence, 1e-9, "three of four ratios are valid")
}

func TestScoreRatios_Empty(t *testing.T) {
	validation, confidence := scoreRatios(nil)
	assert.Zero(t, validation)
	assert.Zero(t, confidence)
}

func TestScoreRatios_NoneValid(t *testing.T) {
	validation, confidence := scoreRatios([]types.FibonacciRatio{
		{Deviation: 0.4, Valid: false},
		{Deviation: 0.6, Valid: false},
	})
	assert.Zero(t, validation)
	assert.Zero(t, confidence)
}

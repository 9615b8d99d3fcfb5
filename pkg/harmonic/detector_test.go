package harmonic

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/harmonic/pkg/indicator"
	"github.com/c9s/harmonic/pkg/types"
)

func newSeries(t *testing.T, prices []float64) types.PriceSeries {
	t.Helper()

	start := time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, len(prices))
	for i := range prices {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}

	series, err := types.NewPriceSeries(prices, times)
	assert.NoError(t, err)
	return series
}

// zigzagSeries builds a series whose only extrema are the given anchor
// prices, joined by straight segments spanning the given bar gaps, with
// a short monotonic lead-in and tail so the outer anchors are
// detectable pivots.
func zigzagSeries(t *testing.T, anchors []float64, gaps []int) types.PriceSeries {
	t.Helper()
	assert.Equal(t, len(anchors)-1, len(gaps), "need one gap per anchor pair")

	const margin = 5

	var prices []float64

	leadStep := math.Abs(anchors[1]-anchors[0]) / float64(gaps[0])
	for i := margin; i >= 1; i-- {
		if anchors[1] < anchors[0] {
			prices = append(prices, anchors[0]-float64(i)*leadStep)
		} else {
			prices = append(prices, anchors[0]+float64(i)*leadStep)
		}
	}

	prices = append(prices, anchors[0])
	for k := 1; k < len(anchors); k++ {
		prev, next := anchors[k-1], anchors[k]
		gap := gaps[k-1]
		for j := 1; j < gap; j++ {
			prices = append(prices, prev+(next-prev)*float64(j)/float64(gap))
		}

		prices = append(prices, next)
	}

	last, beforeLast := anchors[len(anchors)-1], anchors[len(anchors)-2]
	tailStep := math.Abs(last-beforeLast) / float64(gaps[len(gaps)-1])
	for i := 1; i <= margin; i++ {
		if last < beforeLast {
			prices = append(prices, last+float64(i)*tailStep)
		} else {
			prices = append(prices, last-float64(i)*tailStep)
		}
	}

	return newSeries(t, prices)
}

// gartleySeries lays out a bullish Gartley: X 200 high, A 100 low,
// B at the 0.618 retrace, C at the 0.618 retrace of AB, a short bounce,
// then D near the 1.272 projection of the BC leg below C.
func gartleySeries(t *testing.T) types.PriceSeries {
	t.Helper()
	return zigzagSeries(t,
		[]float64{200, 100, 161.8, 123.6, 135, 75},
		[]int{25, 25, 25, 10, 12})
}

func TestDetector_SyntheticGartley(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	scan, err := detector.Scan(context.Background(), gartleySeries(t))
	assert.NoError(t, err)
	assert.NotEmpty(t, scan.Patterns)

	var gartley *types.HarmonicPattern
	for i := range scan.Patterns {
		p := &scan.Patterns[i]
		if p.Type == types.PatternGartley && p.Direction == types.DirectionBullish {
			gartley = p
			break
		}
	}

	assert.NotNil(t, gartley, "the bullish gartley structure must be detected")
	assert.True(t, gartley.Completion.Complete)
	assert.NotNil(t, gartley.D)
	assert.Equal(t, 200.0, gartley.X.Price)
	assert.Equal(t, 100.0, gartley.A.Price)
	assert.Equal(t, 161.8, gartley.B.Price)
	assert.Equal(t, 123.6, gartley.C.Price)
	assert.Equal(t, 75.0, gartley.D.Price)

	assert.True(t, gartley.Completion.ValidationScore > 0.9,
		"score %v should reflect near ideal ratios", gartley.Completion.ValidationScore)
	assert.Equal(t, 75.0, gartley.Completion.ConfidenceScore, "three of the four ratios are valid")
	assert.Equal(t, 75.0, gartley.Levels.Entry)

	abxa, ok := gartley.Ratio(types.RatioABXA)
	assert.True(t, ok)
	assert.True(t, abxa.Valid)
	assert.InDelta(t, 0.618, abxa.Actual, 1e-9)

	adxa, ok := gartley.Ratio(types.RatioADXA)
	assert.True(t, ok)
	assert.False(t, adxa.Valid, "the D leg lands far from the 0.786 retrace in this fixture")
}

func TestDetector_BearishMirror(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	// The bullish fixture mirrored around 150.
	series := zigzagSeries(t,
		[]float64{100, 200, 138.2, 176.4, 165, 225},
		[]int{25, 25, 25, 10, 12})

	scan, err := detector.Scan(context.Background(), series)
	assert.NoError(t, err)

	var gartley *types.HarmonicPattern
	for i := range scan.Patterns {
		p := &scan.Patterns[i]
		if p.Type == types.PatternGartley && p.Direction == types.DirectionBearish {
			gartley = p
			break
		}
	}

	assert.NotNil(t, gartley, "the bearish gartley structure must be detected")
	assert.True(t, gartley.Completion.Complete)
	assert.Equal(t, 225.0, gartley.D.Price)
	assert.True(t, gartley.Completion.ValidationScore > 0.9)
}

func TestDetector_Invariants(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	scan, err := detector.Scan(context.Background(), gartleySeries(t))
	assert.NoError(t, err)

	cfg := detector.Config()
	for _, p := range scan.Patterns {
		if p.Direction == types.DirectionBullish {
			assert.True(t, p.X.Price > p.A.Price)
			assert.True(t, p.B.Price > p.A.Price)
			assert.True(t, p.C.Price < p.B.Price)
		} else {
			assert.True(t, p.X.Price < p.A.Price)
			assert.True(t, p.B.Price < p.A.Price)
			assert.True(t, p.C.Price > p.B.Price)
		}

		assert.True(t, p.A.Index-p.X.Index >= cfg.MinPatternBars)
		assert.True(t, p.B.Index-p.A.Index >= cfg.MinPatternBars)
		assert.True(t, p.C.Index-p.B.Index >= cfg.MinPatternBars)
		assert.True(t, p.C.Index-p.X.Index <= cfg.MaxPatternBars)

		assert.True(t, p.Levels.RiskReward > 0)
		assert.True(t, p.Completion.ValidationScore > cfg.MinValidationScore)
	}
}

func TestDetector_PartitionInvariant(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	scan, err := detector.Scan(context.Background(), gartleySeries(t))
	assert.NoError(t, err)

	assert.Equal(t, len(scan.Patterns), len(scan.CompletedPatterns)+len(scan.PotentialPatterns))
	for _, p := range scan.CompletedPatterns {
		assert.True(t, p.Completion.Complete)
		assert.NotNil(t, p.D)
	}
	for _, p := range scan.PotentialPatterns {
		assert.False(t, p.Completion.Complete)
		assert.Nil(t, p.D)
	}
}

func TestDetector_Deterministic(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	series := gartleySeries(t)
	first, err := detector.Scan(context.Background(), series)
	assert.NoError(t, err)
	second, err := detector.Scan(context.Background(), series)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetector_ParallelMatchesSequential(t *testing.T) {
	series := gartleySeries(t)

	sequential, err := NewDetector(Config{})
	assert.NoError(t, err)
	parallel, err := NewDetector(Config{Parallel: true})
	assert.NoError(t, err)

	want, err := sequential.Scan(context.Background(), series)
	assert.NoError(t, err)
	got, err := parallel.Scan(context.Background(), series)
	assert.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestDetector_ScanWithType(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	series := gartleySeries(t)

	complete, err := detector.ScanWithType(context.Background(), series, types.ScanTypeComplete)
	assert.NoError(t, err)
	assert.NotEmpty(t, complete.Patterns)
	for _, p := range complete.Patterns {
		assert.True(t, p.Completion.Complete)
	}
	assert.Empty(t, complete.PotentialPatterns)

	potential, err := detector.ScanWithType(context.Background(), series, types.ScanTypePotential)
	assert.NoError(t, err)
	assert.NotEmpty(t, potential.Patterns)
	for _, p := range potential.Patterns {
		assert.False(t, p.Completion.Complete)
	}
	assert.Empty(t, potential.CompletedPatterns)

	all, err := detector.ScanWithType(context.Background(), series, types.ScanTypeAll)
	assert.NoError(t, err)
	assert.Equal(t, len(all.Patterns), len(complete.Patterns)+len(potential.Patterns))
}

func TestDetector_InsufficientData(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	series := newSeries(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	_, err = detector.Scan(context.Background(), series)
	assert.ErrorIs(t, err, indicator.ErrInsufficientData)
}

func TestDetector_NoPatternsOnTrend(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = float64(i + 1)
	}

	scan, err := detector.Scan(context.Background(), newSeries(t, prices))
	assert.NoError(t, err)
	assert.Empty(t, scan.Patterns)
	assert.Zero(t, scan.Metrics.AverageReliability)
	assert.Zero(t, scan.Metrics.FibonacciAccuracy)
	assert.Zero(t, scan.Metrics.PatternDensity)
}

func TestDetector_MaxPivotsCap(t *testing.T) {
	series := gartleySeries(t)

	unbounded, err := NewDetector(Config{})
	assert.NoError(t, err)
	scan, err := unbounded.Scan(context.Background(), series)
	assert.NoError(t, err)
	assert.NotEmpty(t, scan.Patterns)

	// Keeping only the five most recent pivots drops X, so nothing can
	// be assembled anymore.
	capped, err := NewDetector(Config{MaxPivots: 5})
	assert.NoError(t, err)
	scan, err = capped.Scan(context.Background(), series)
	assert.NoError(t, err)
	assert.Empty(t, scan.Patterns)
}

func TestDetector_ContextCancelled(t *testing.T) {
	detector, err := NewDetector(Config{})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = detector.Scan(ctx, gartleySeries(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.Defaults()

	assert.Equal(t, DefaultPivotWindow, c.PivotWindow)
	assert.Equal(t, DefaultMinPatternBars, c.MinPatternBars)
	assert.Equal(t, DefaultMaxPatternBars, c.MaxPatternBars)
	assert.Equal(t, DefaultFibTolerance, c.FibTolerance)
	assert.Equal(t, DefaultPriceTolerance, c.PriceTolerance)
	assert.Equal(t, DefaultMinValidationScore, c.MinValidationScore)
	assert.Equal(t, DefaultEntryValidationScore, c.EntryValidationScore)
	assert.Equal(t, DefaultEntryProximity, c.EntryProximity)
	assert.Equal(t, DefaultMinRiskReward, c.MinRiskReward)
	assert.Equal(t, DefaultMaxPivots, c.MaxPivots)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{}
	valid.Defaults()
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"window below one", func(c *Config) { c.PivotWindow = 0 }},
		{"negative min bars", func(c *Config) { c.MinPatternBars = -1 }},
		{"max bars too small for three legs", func(c *Config) { c.MaxPatternBars = 59 }},
		{"fib tolerance out of range", func(c *Config) { c.FibTolerance = 1.5 }},
		{"price tolerance out of range", func(c *Config) { c.PriceTolerance = -0.1 }},
		{"validation score out of range", func(c *Config) { c.MinValidationScore = 1.0 }},
		{"entry score out of range", func(c *Config) { c.EntryValidationScore = 2.0 }},
		{"entry proximity not positive", func(c *Config) { c.EntryProximity = -1 }},
		{"risk reward not positive", func(c *Config) { c.MinRiskReward = -2 }},
		{"pivot cap below four", func(c *Config) { c.MaxPivots = 3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{}
			c.Defaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

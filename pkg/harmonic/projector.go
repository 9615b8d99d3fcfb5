package harmonic

import (
	"fmt"
	"math"

	"github.com/c9s/harmonic/pkg/datatype/floats"
	"github.com/c9s/harmonic/pkg/types"
)

const (
	// completionTimeRatio scales the average prior leg span into a CD
	// leg duration estimate.
	completionTimeRatio = 0.618

	// The completion probability blends price proximity with the
	// structural validation score.
	proximityWeight  = 0.6
	validationWeight = 0.4
)

// ProjectD computes the theoretical completion price of a four-point
// candidate from the template's ideal CD/BC ratio. Bullish patterns
// complete below C, bearish patterns above.
func ProjectD(pattern types.HarmonicPattern, tpl types.PatternTemplate) float64 {
	cd := math.Abs(pattern.C.Price-pattern.B.Price) * tpl.CDBC.Ideal
	if pattern.Direction == types.DirectionBullish {
		return pattern.C.Price - cd
	}

	return pattern.C.Price + cd
}

// FindNearestPivot returns the first pivot strictly after the given
// series index whose price lies within the fractional tolerance of the
// target price.
func FindNearestPivot(pivots types.PivotPoints, price float64, afterIndex int, tolerance float64) (types.PivotPoint, bool) {
	band := math.Abs(price) * tolerance
	for _, p := range pivots {
		if p.Index <= afterIndex {
			continue
		}

		if math.Abs(p.Price-price) <= band {
			return p, true
		}
	}

	return types.PivotPoint{}, false
}

// PredictCompletion estimates when and with what probability an
// incomplete pattern will reach its projected D point, and whether the
// current price already justifies an entry.
func (d *Detector) PredictCompletion(pattern types.HarmonicPattern, currentPrice float64) types.CompletionForecast {
	projected := pattern.Completion.ProjectedD

	spans := floats.New(
		float64(pattern.A.Index-pattern.X.Index),
		float64(pattern.B.Index-pattern.A.Index),
		float64(pattern.C.Index-pattern.B.Index),
	)
	estimatedBars := int(math.Round(spans.Mean() * completionTimeRatio))

	// Proximity is the normalized distance between the current price and
	// the projection, measured against the A to C price range.
	distance := math.Abs(currentPrice - projected)
	priceRange := math.Abs(pattern.C.Price - pattern.A.Price)
	var proximity float64
	if priceRange > 0 {
		proximity = clamp(1-distance/priceRange, 0, 1)
	}

	score := pattern.Completion.ValidationScore
	forecast := types.CompletionForecast{
		ProjectedD:    projected,
		EstimatedBars: estimatedBars,
		Probability:   proximityWeight*proximity + validationWeight*score,
	}
	forecast.Plan = d.planEntry(pattern, currentPrice, projected, score)
	return forecast
}

func (d *Detector) planEntry(pattern types.HarmonicPattern, currentPrice, projected, score float64) types.TradingPlan {
	if projected == 0 {
		return types.TradingPlan{Reason: "no projected completion price"}
	}

	levels, err := CalculateLevels(pattern, projected)
	if err != nil {
		return types.TradingPlan{Reason: err.Error()}
	}

	plan := types.TradingPlan{Levels: levels}
	drift := math.Abs(currentPrice-projected) / math.Abs(projected)
	switch {
	case drift >= d.config.EntryProximity:
		plan.Reason = fmt.Sprintf("price %.4f is %.2f%% away from the projected completion %.4f",
			currentPrice, drift*100, projected)
	case levels.RiskReward <= d.config.MinRiskReward:
		plan.Reason = fmt.Sprintf("risk/reward %.2f is below the required %.2f",
			levels.RiskReward, d.config.MinRiskReward)
	case score <= d.config.EntryValidationScore:
		plan.Reason = fmt.Sprintf("validation score %.2f is below the required %.2f",
			score, d.config.EntryValidationScore)
	default:
		plan.ShouldEnter = true
		plan.Reason = "price is in the completion zone with acceptable risk/reward"
	}

	return plan
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

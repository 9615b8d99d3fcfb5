package harmonic

import (
	"context"

	"github.com/c9s/harmonic/pkg/types"
)

// scanTemplate enumerates every strictly increasing pivot quadruple
// (X, A, B, C) and evaluates it against one template. Pivots are
// ordered by series index, so once a quadruple's span exceeds the
// maximum pattern width, later candidates in the same loop can be
// skipped wholesale.
func (d *Detector) scanTemplate(ctx context.Context, pivots types.PivotPoints, tpl types.PatternTemplate) ([]types.HarmonicPattern, error) {
	n := len(pivots)

	var patterns []types.HarmonicPattern
	for x := 0; x < n-3; x++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for a := x + 1; a < n-2; a++ {
			if pivots[a].Index-pivots[x].Index > d.config.MaxPatternBars {
				break
			}

			for b := a + 1; b < n-1; b++ {
				for c := b + 1; c < n; c++ {
					if pivots[c].Index-pivots[x].Index > d.config.MaxPatternBars {
						break
					}

					pattern, ok := d.evaluate(pivots, x, a, b, c, tpl)
					if !ok {
						continue
					}

					patterns = append(patterns, pattern)
				}
			}
		}
	}

	return patterns, nil
}

// evaluate runs one candidate quadruple through the direction, spacing
// and ratio filters, attempts completion, scores the result, and
// derives trading levels. The second return value reports whether the
// candidate survived.
func (d *Detector) evaluate(pivots types.PivotPoints, xi, ai, bi, ci int, tpl types.PatternTemplate) (types.HarmonicPattern, bool) {
	x, a, b, c := pivots[xi], pivots[ai], pivots[bi], pivots[ci]

	if !matchDirection(tpl.Direction, x, a, b, c) {
		return types.HarmonicPattern{}, false
	}
	if !d.matchSpacing(x, a, b, c) {
		return types.HarmonicPattern{}, false
	}

	abxa, ok := legRatio(a.Price, b.Price, x.Price, a.Price)
	if !ok {
		return types.HarmonicPattern{}, false
	}
	bcab, ok := legRatio(b.Price, c.Price, a.Price, b.Price)
	if !ok {
		return types.HarmonicPattern{}, false
	}

	ratios := []types.FibonacciRatio{
		ValidateRatio(types.RatioABXA, abxa, tpl.ABXA.Ideal, d.config.FibTolerance),
		ValidateRatio(types.RatioBCAB, bcab, tpl.BCAB.Ideal, d.config.FibTolerance),
	}
	if !ratios[0].Valid || !ratios[1].Valid {
		return types.HarmonicPattern{}, false
	}

	pattern := types.HarmonicPattern{
		Type:        tpl.Type,
		Direction:   tpl.Direction,
		X:           x,
		A:           a,
		B:           b,
		C:           c,
		Reliability: tpl.Reliability,
	}

	completion := types.PatternCompletion{ProjectedD: ProjectD(pattern, tpl)}
	if dPivot, found := FindNearestPivot(pivots, completion.ProjectedD, c.Index, d.config.PriceTolerance); found {
		pattern.D = &dPivot
		completion.Complete = true

		if cdbc, ok := legRatio(c.Price, dPivot.Price, b.Price, c.Price); ok {
			ratios = append(ratios, ValidateRatio(types.RatioCDBC, cdbc, tpl.CDBC.Ideal, d.config.FibTolerance))
		}
		if adxa, ok := legRatio(a.Price, dPivot.Price, x.Price, a.Price); ok {
			ratios = append(ratios, ValidateRatio(types.RatioADXA, adxa, tpl.ADXA.Ideal, d.config.FibTolerance))
		}
	}

	completion.ValidationScore, completion.ConfidenceScore = scoreRatios(ratios)
	pattern.Ratios = ratios
	pattern.Completion = completion

	if completion.ValidationScore <= d.config.MinValidationScore {
		return types.HarmonicPattern{}, false
	}

	levels, err := CalculateLevels(pattern, completion.ProjectedD)
	if err != nil {
		return types.HarmonicPattern{}, false
	}
	pattern.Levels = levels

	return pattern, true
}

// matchDirection checks the alternating high/low structure. A bullish
// candidate starts from a high X, drops to a low A, recovers to a high
// B and falls again to C. Bearish is the mirror image.
func matchDirection(direction types.Direction, x, a, b, c types.PivotPoint) bool {
	if direction == types.DirectionBullish {
		return x.Price > a.Price && b.Price > a.Price && c.Price < b.Price
	}

	return x.Price < a.Price && b.Price < a.Price && c.Price > b.Price
}

// matchSpacing requires every consecutive leg to span at least the
// minimum bar count and the whole X to C structure to fit inside the
// maximum.
func (d *Detector) matchSpacing(x, a, b, c types.PivotPoint) bool {
	minBars := d.config.MinPatternBars
	if a.Index-x.Index < minBars || b.Index-a.Index < minBars || c.Index-b.Index < minBars {
		return false
	}

	return c.Index-x.Index <= d.config.MaxPatternBars
}

package harmonic

import (
	"math"

	"github.com/c9s/harmonic/pkg/types"
)

// ValidateRatio measures how far an observed leg ratio deviates from a
// target Fibonacci constant. The ratio is valid when the deviation,
// taken as a fraction of the target, stays within the tolerance.
func ValidateRatio(name string, actual, target, tolerance float64) types.FibonacciRatio {
	deviation := math.Abs(actual-target) / target
	return types.FibonacciRatio{
		Name:      name,
		Target:    target,
		Tolerance: tolerance,
		Actual:    actual,
		Deviation: deviation,
		Valid:     deviation <= tolerance,
	}
}

// legRatio returns the length ratio between two price legs. The second
// return value is false when the denominator leg has zero length, in
// which case the ratio is undefined and the candidate must be skipped.
func legRatio(numFrom, numTo, denFrom, denTo float64) (float64, bool) {
	den := math.Abs(denTo - denFrom)
	if den == 0 {
		return 0, false
	}

	return math.Abs(numTo-numFrom) / den, true
}

// scoreRatios derives the two quality scores from a ratio set.
//
// The validation score is the mean closeness (1 - deviation) over the
// valid ratios only, so a single blown ratio does not drag down an
// otherwise clean structure. The confidence score is the percentage of
// evaluated ratios that came out valid.
func scoreRatios(ratios []types.FibonacciRatio) (validation, confidence float64) {
	if len(ratios) == 0 {
		return 0, 0
	}

	var sum float64
	var valid int
	for _, r := range ratios {
		if !r.Valid {
			continue
		}

		valid++
		sum += 1 - r.Deviation
	}

	if valid > 0 {
		validation = sum / float64(valid)
	}

	confidence = 100 * float64(valid) / float64(len(ratios))
	return validation, confidence
}

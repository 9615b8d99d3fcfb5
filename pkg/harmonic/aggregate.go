package harmonic

import (
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/harmonic/pkg/types"
)

// Aggregate partitions patterns into complete and potential subsets and
// computes scan-wide quality metrics. An empty input yields an empty
// scan with zero metrics, never an error.
func Aggregate(patterns []types.HarmonicPattern) *types.PatternScan {
	scan := &types.PatternScan{
		Patterns:          []types.HarmonicPattern{},
		PotentialPatterns: []types.HarmonicPattern{},
		CompletedPatterns: []types.HarmonicPattern{},
	}
	if len(patterns) == 0 {
		return scan
	}

	scan.Patterns = patterns
	reliabilities := make([]float64, 0, len(patterns))
	scores := make([]float64, 0, len(patterns))
	for _, p := range patterns {
		if p.Completion.Complete {
			scan.CompletedPatterns = append(scan.CompletedPatterns, p)
		} else {
			scan.PotentialPatterns = append(scan.PotentialPatterns, p)
		}

		reliabilities = append(reliabilities, p.Reliability)
		scores = append(scores, p.Completion.ValidationScore)
	}

	scan.Metrics = types.QualityMetrics{
		AverageReliability: stat.Mean(reliabilities, nil),
		FibonacciAccuracy:  stat.Mean(scores, nil),
		PatternDensity:     len(patterns),
	}

	return scan
}

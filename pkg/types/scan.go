package types

import (
	"fmt"
)

// ScanType filters which completion states a scan should report.
type ScanType string

const (
	ScanTypeAll       = ScanType("all")
	ScanTypeComplete  = ScanType("complete")
	ScanTypePotential = ScanType("potential")
)

func ParseScanType(s string) (ScanType, error) {
	switch ScanType(s) {
	case ScanTypeAll, ScanTypeComplete, ScanTypePotential:
		return ScanType(s), nil
	case "":
		return ScanTypeAll, nil
	}

	return "", fmt.Errorf("invalid scan type %q, must be one of: all, complete, potential", s)
}

// QualityMetrics summarizes one scan. PatternDensity is the raw pattern count;
// normalizing it by the observed time window is left to the caller.
type QualityMetrics struct {
	AverageReliability float64 `json:"averageReliability"`
	FibonacciAccuracy  float64 `json:"fibonacciAccuracy"`
	PatternDensity     int     `json:"patternDensity"`
}

// PatternScan is the result of one full scan over a price series.
// PotentialPatterns and CompletedPatterns partition Patterns by completion state.
type PatternScan struct {
	Patterns          []HarmonicPattern `json:"patterns"`
	PotentialPatterns []HarmonicPattern `json:"potentialPatterns"`
	CompletedPatterns []HarmonicPattern `json:"completedPatterns"`

	Metrics QualityMetrics `json:"qualityMetrics"`
}

// TradingPlan is the entry recommendation attached to a completion forecast.
type TradingPlan struct {
	ShouldEnter bool          `json:"shouldEnter"`
	Reason      string        `json:"reason"`
	Levels      TradingLevels `json:"levels"`
}

// CompletionForecast estimates when and how likely an incomplete pattern is to
// reach its projected D point.
type CompletionForecast struct {
	ProjectedD    float64     `json:"projectedD"`
	EstimatedBars int         `json:"estimatedBars"`
	Probability   float64     `json:"probability"`
	Plan          TradingPlan `json:"plan"`
}

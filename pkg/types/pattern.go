package types

import (
	"fmt"

	"github.com/c9s/harmonic/pkg/datatype/floats"
)

// Direction defines the orientation of a harmonic pattern
type Direction string

const (
	DirectionBullish = Direction("bullish")
	DirectionBearish = Direction("bearish")
)

func (d Direction) Reverse() Direction {
	switch d {
	case DirectionBullish:
		return DirectionBearish

	case DirectionBearish:
		return DirectionBullish
	}

	return d
}

func (d Direction) String() string {
	return string(d)
}

// PatternType defines the harmonic pattern shape
type PatternType string

const (
	PatternGartley   = PatternType("gartley")
	PatternButterfly = PatternType("butterfly")
	PatternBat       = PatternType("bat")
	PatternCrab      = PatternType("crab")
)

func (p PatternType) String() string {
	return string(p)
}

// Canonical leg ratio names shared by the validator, the templates and the reports.
const (
	RatioABXA = "AB/XA"
	RatioBCAB = "BC/AB"
	RatioCDBC = "CD/BC"
	RatioADXA = "AD/XA"
)

// RatioBand is the acceptable range for one leg ratio of a pattern template.
type RatioBand struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Ideal float64 `json:"ideal"`
}

// PatternTemplate is the immutable description of one harmonic shape and direction.
// Templates are data: the scanner only reads the ratio bands, it never mutates them.
type PatternTemplate struct {
	Type      PatternType `json:"type"`
	Direction Direction   `json:"direction"`

	ABXA RatioBand `json:"abxa"`
	BCAB RatioBand `json:"bcab"`
	CDBC RatioBand `json:"cdbc"`
	ADXA RatioBand `json:"adxa"`

	Description string  `json:"description"`
	Reliability float64 `json:"reliability"`
}

func (t PatternTemplate) String() string {
	return fmt.Sprintf("%s %s", t.Direction, t.Type)
}

// FibonacciRatio is the validation result for one geometric leg ratio.
type FibonacciRatio struct {
	Name      string  `json:"name"`
	Target    float64 `json:"target"`
	Tolerance float64 `json:"tolerance"`
	Actual    float64 `json:"actual"`
	Deviation float64 `json:"deviation"`
	Valid     bool    `json:"valid"`
}

// PatternCompletion tracks whether a pattern has reached its D point.
// ProjectedD is always derived from the template's ideal CD/BC ratio,
// Complete turns true only when an actual pivot confirmed the projection.
type PatternCompletion struct {
	Complete        bool    `json:"complete"`
	ProjectedD      float64 `json:"projectedD"`
	ConfidenceScore float64 `json:"confidenceScore"`
	ValidationScore float64 `json:"validationScore"`
}

// TradingLevels derives entry, stop and the profit target ladder from a completed
// or projected pattern.
type TradingLevels struct {
	Entry      float64      `json:"entry"`
	StopLoss   float64      `json:"stopLoss"`
	Targets    floats.Slice `json:"targets"`
	RiskReward float64      `json:"riskRewardRatio"`
}

// HarmonicPattern is one detected or candidate XABCD pattern instance.
type HarmonicPattern struct {
	Type      PatternType `json:"type"`
	Direction Direction   `json:"direction"`

	X PivotPoint  `json:"x"`
	A PivotPoint  `json:"a"`
	B PivotPoint  `json:"b"`
	C PivotPoint  `json:"c"`
	D *PivotPoint `json:"d,omitempty"`

	Ratios []FibonacciRatio `json:"ratios"`

	Completion PatternCompletion `json:"completion"`
	Levels     TradingLevels     `json:"tradingLevels"`

	Reliability float64 `json:"reliability"`
}

func (p HarmonicPattern) String() string {
	if p.D != nil {
		return fmt.Sprintf("%s %s [%d..%d]", p.Direction, p.Type, p.X.Index, p.D.Index)
	}
	return fmt.Sprintf("%s %s [%d..%d] (potential)", p.Direction, p.Type, p.X.Index, p.C.Index)
}

// Ratio looks up a validated ratio by its canonical name.
func (p HarmonicPattern) Ratio(name string) (FibonacciRatio, bool) {
	for _, r := range p.Ratios {
		if r.Name == name {
			return r, true
		}
	}
	return FibonacciRatio{}, false
}

// Points returns the labeled pivots in chronological order, D included when present.
func (p HarmonicPattern) Points() []PivotPoint {
	points := []PivotPoint{p.X, p.A, p.B, p.C}
	if p.D != nil {
		points = append(points, *p.D)
	}
	return points
}

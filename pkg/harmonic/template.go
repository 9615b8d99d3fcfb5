package harmonic

import (
	"github.com/c9s/harmonic/pkg/types"
)

const (
	// DefaultFibTolerance is the allowed fractional deviation of a leg
	// ratio from its template ideal.
	DefaultFibTolerance = 0.05

	// DefaultMinPatternBars is the minimum bar count between two
	// consecutive pattern points.
	DefaultMinPatternBars = 20

	// DefaultMaxPatternBars bounds the total bar span from X to C.
	DefaultMaxPatternBars = 200

	// DefaultPivotWindow is the swing confirmation window handed to the
	// pivot finder.
	DefaultPivotWindow = 3

	// DefaultPriceTolerance is the fractional band used when matching a
	// projected D price against an actual later pivot.
	DefaultPriceTolerance = 0.02

	// DefaultMinValidationScore is the score below which a candidate is
	// discarded from scan results.
	DefaultMinValidationScore = 0.6

	// DefaultEntryValidationScore is the score a pattern must exceed
	// before an entry is recommended.
	DefaultEntryValidationScore = 0.7

	// DefaultEntryProximity is how close, as a fraction of the projected
	// completion price, the current price must be for entry.
	DefaultEntryProximity = 0.02

	// DefaultMinRiskReward is the minimum reward-to-risk multiple for a
	// trade recommendation.
	DefaultMinRiskReward = 1.5

	// DefaultMaxPivots caps the pivot list handed to the combinatorial
	// scanner, keeping only the most recent pivots. The enumeration is
	// quartic in the pivot count, so the cap bounds scan cost on long
	// series.
	DefaultMaxPivots = 60
)

// TemplateRegistry holds the known harmonic shapes, one template per
// pattern type and direction. It is built once and never mutated, so a
// single registry can be shared across concurrent scans.
type TemplateRegistry struct {
	templates []types.PatternTemplate
}

// NewTemplateRegistry builds the registry with ratio bands spanning
// ideal*(1-tolerance) to ideal*(1+tolerance) around each ideal ratio.
func NewTemplateRegistry(tolerance float64) *TemplateRegistry {
	if tolerance <= 0 {
		tolerance = DefaultFibTolerance
	}

	base := []struct {
		typ                    types.PatternType
		abxa, bcab, cdbc, adxa float64
		reliability            float64
		description            string
	}{
		{types.PatternGartley, 0.618, 0.618, 1.272, 0.786, 75,
			"retracement pattern completing near the 0.786 pullback of the XA leg"},
		{types.PatternButterfly, 0.786, 0.618, 1.618, 1.27, 70,
			"extension pattern completing beyond X at the 1.27 extension of the XA leg"},
		{types.PatternBat, 0.382, 0.618, 1.618, 0.886, 80,
			"deep retest pattern with a shallow B point completing near the 0.886 pullback of XA"},
		{types.PatternCrab, 0.618, 0.618, 2.618, 1.618, 85,
			"extreme extension pattern completing at the 1.618 extension of the XA leg"},
	}

	templates := make([]types.PatternTemplate, 0, len(base)*2)
	for _, b := range base {
		for _, direction := range []types.Direction{types.DirectionBullish, types.DirectionBearish} {
			templates = append(templates, types.PatternTemplate{
				Type:        b.typ,
				Direction:   direction,
				ABXA:        band(b.abxa, tolerance),
				BCAB:        band(b.bcab, tolerance),
				CDBC:        band(b.cdbc, tolerance),
				ADXA:        band(b.adxa, tolerance),
				Description: b.description,
				Reliability: b.reliability,
			})
		}
	}

	return &TemplateRegistry{templates: templates}
}

func band(ideal, tolerance float64) types.RatioBand {
	return types.RatioBand{
		Min:   ideal * (1 - tolerance),
		Max:   ideal * (1 + tolerance),
		Ideal: ideal,
	}
}

// All returns a copy of the registered templates in registry order.
func (r *TemplateRegistry) All() []types.PatternTemplate {
	out := make([]types.PatternTemplate, len(r.templates))
	copy(out, r.templates)
	return out
}

// Get looks up the template for the given pattern type and direction.
func (r *TemplateRegistry) Get(typ types.PatternType, direction types.Direction) (types.PatternTemplate, bool) {
	for _, t := range r.templates {
		if t.Type == typ && t.Direction == direction {
			return t, true
		}
	}

	return types.PatternTemplate{}, false
}

// Len returns the number of registered templates.
func (r *TemplateRegistry) Len() int {
	return len(r.templates)
}

// Package harmonic implements XABCD harmonic pattern detection over a
// price series: pivot extraction, combinatorial candidate enumeration,
// Fibonacci ratio validation, completion projection and trading level
// derivation.
package harmonic

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/c9s/harmonic/pkg/indicator"
	"github.com/c9s/harmonic/pkg/types"
	"github.com/c9s/harmonic/pkg/util"
)

var log = logrus.WithField("engine", "harmonic")

// Config tunes a Detector. Zero fields are filled by Defaults, so the
// zero value becomes a fully working default configuration.
type Config struct {
	// PivotWindow is the swing confirmation window on each side of a
	// pivot candidate.
	PivotWindow int `json:"pivotWindow" yaml:"pivotWindow"`

	// MinPatternBars is the minimum bar distance between consecutive
	// pattern points.
	MinPatternBars int `json:"minPatternBars" yaml:"minPatternBars"`

	// MaxPatternBars bounds the bar span from X to C.
	MaxPatternBars int `json:"maxPatternBars" yaml:"maxPatternBars"`

	// FibTolerance is the allowed fractional deviation of a leg ratio
	// from its template ideal.
	FibTolerance float64 `json:"fibTolerance" yaml:"fibTolerance"`

	// PriceTolerance is the fractional band for matching a projected D
	// against an actual pivot.
	PriceTolerance float64 `json:"priceTolerance" yaml:"priceTolerance"`

	// MinValidationScore discards candidates scoring at or below it.
	MinValidationScore float64 `json:"minValidationScore" yaml:"minValidationScore"`

	// EntryValidationScore is the score required before recommending an
	// entry.
	EntryValidationScore float64 `json:"entryValidationScore" yaml:"entryValidationScore"`

	// EntryProximity is the maximum fractional distance between the
	// current price and the projected completion for an entry.
	EntryProximity float64 `json:"entryProximity" yaml:"entryProximity"`

	// MinRiskReward is the reward-to-risk multiple an entry must exceed.
	MinRiskReward float64 `json:"minRiskReward" yaml:"minRiskReward"`

	// MaxPivots caps the pivot list at the most recent entries before
	// the quartic enumeration runs.
	MaxPivots int `json:"maxPivots" yaml:"maxPivots"`

	// Parallel scans the templates concurrently, one goroutine each.
	Parallel bool `json:"parallel" yaml:"parallel"`
}

// Defaults fills unset fields with the standard engine constants.
func (c *Config) Defaults() {
	if c.PivotWindow == 0 {
		c.PivotWindow = DefaultPivotWindow
	}
	if c.MinPatternBars == 0 {
		c.MinPatternBars = DefaultMinPatternBars
	}
	if c.MaxPatternBars == 0 {
		c.MaxPatternBars = DefaultMaxPatternBars
	}
	if c.FibTolerance == 0 {
		c.FibTolerance = DefaultFibTolerance
	}
	if c.PriceTolerance == 0 {
		c.PriceTolerance = DefaultPriceTolerance
	}
	if c.MinValidationScore == 0 {
		c.MinValidationScore = DefaultMinValidationScore
	}
	if c.EntryValidationScore == 0 {
		c.EntryValidationScore = DefaultEntryValidationScore
	}
	if c.EntryProximity == 0 {
		c.EntryProximity = DefaultEntryProximity
	}
	if c.MinRiskReward == 0 {
		c.MinRiskReward = DefaultMinRiskReward
	}
	if c.MaxPivots == 0 {
		c.MaxPivots = DefaultMaxPivots
	}
}

// Validate rejects configurations that cannot produce any pattern.
func (c *Config) Validate() error {
	if c.PivotWindow < 1 {
		return pkgerrors.Errorf("pivot window %d must be at least 1", c.PivotWindow)
	}
	if c.MinPatternBars < 1 {
		return pkgerrors.Errorf("minimum pattern bars %d must be at least 1", c.MinPatternBars)
	}
	if c.MaxPatternBars < 3*c.MinPatternBars {
		return pkgerrors.Errorf("maximum pattern bars %d cannot fit three legs of %d bars",
			c.MaxPatternBars, c.MinPatternBars)
	}
	if c.FibTolerance <= 0 || c.FibTolerance >= 1 {
		return pkgerrors.Errorf("fibonacci tolerance %v must be within (0, 1)", c.FibTolerance)
	}
	if c.PriceTolerance <= 0 || c.PriceTolerance >= 1 {
		return pkgerrors.Errorf("price tolerance %v must be within (0, 1)", c.PriceTolerance)
	}
	if c.MinValidationScore < 0 || c.MinValidationScore >= 1 {
		return pkgerrors.Errorf("minimum validation score %v must be within [0, 1)", c.MinValidationScore)
	}
	if c.EntryValidationScore < 0 || c.EntryValidationScore >= 1 {
		return pkgerrors.Errorf("entry validation score %v must be within [0, 1)", c.EntryValidationScore)
	}
	if c.EntryProximity <= 0 {
		return pkgerrors.Errorf("entry proximity %v must be positive", c.EntryProximity)
	}
	if c.MinRiskReward <= 0 {
		return pkgerrors.Errorf("minimum risk/reward %v must be positive", c.MinRiskReward)
	}
	if c.MaxPivots < 4 {
		return pkgerrors.Errorf("pivot cap %d cannot hold a four point pattern", c.MaxPivots)
	}

	return nil
}

// Detector scans price series for harmonic patterns. A Detector is
// immutable after construction and safe for concurrent use.
type Detector struct {
	config   Config
	registry *TemplateRegistry
	finder   *indicator.PivotFinder
}

// NewDetector applies defaults to the given config, validates it and
// builds a detector with its own template registry.
func NewDetector(config Config) (*Detector, error) {
	config.Defaults()
	if err := config.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid detector config")
	}

	return &Detector{
		config:   config,
		registry: NewTemplateRegistry(config.FibTolerance),
		finder: &indicator.PivotFinder{
			Window:    config.PivotWindow,
			MinPoints: 4 * config.MinPatternBars,
		},
	}, nil
}

// Config returns the effective configuration after defaults.
func (d *Detector) Config() Config {
	return d.config
}

// Templates returns the detector's template registry.
func (d *Detector) Templates() *TemplateRegistry {
	return d.registry
}

// Pivots exposes the pivot extraction stage on its own, without the
// recency cap applied by Scan.
func (d *Detector) Pivots(series types.PriceSeries) (types.PivotPoints, error) {
	return d.finder.Find(series)
}

// Scan runs a full detection pass over the series and returns every
// surviving pattern, complete and potential.
func (d *Detector) Scan(ctx context.Context, series types.PriceSeries) (*types.PatternScan, error) {
	return d.ScanWithType(ctx, series, types.ScanTypeAll)
}

// ScanWithType runs a detection pass and restricts the result to the
// requested completion state before aggregation, so the partition
// invariant holds on the returned scan.
func (d *Detector) ScanWithType(ctx context.Context, series types.PriceSeries, scanType types.ScanType) (*types.PatternScan, error) {
	tp := util.StartTimeProfile("scan")
	defer tp.StopAndLog(log.Debugf)

	pivots, err := d.finder.Find(series)
	if err != nil {
		return nil, err
	}

	if d.config.MaxPivots > 0 && len(pivots) > d.config.MaxPivots {
		log.Debugf("capping %d pivots to the most recent %d", len(pivots), d.config.MaxPivots)
		pivots = pivots.Tail(d.config.MaxPivots)
	}

	templates := d.registry.All()
	results := make([][]types.HarmonicPattern, len(templates))

	if d.config.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, tpl := range templates {
			i, tpl := i, tpl
			g.Go(func() error {
				found, err := d.scanTemplate(gctx, pivots, tpl)
				if err != nil {
					return err
				}

				results[i] = found
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, tpl := range templates {
			found, err := d.scanTemplate(ctx, pivots, tpl)
			if err != nil {
				return nil, err
			}

			results[i] = found
		}
	}

	// Concatenating in registry order keeps the output deterministic
	// regardless of the parallel setting.
	var patterns []types.HarmonicPattern
	for i, found := range results {
		if len(found) > 0 {
			log.Debugf("%s: %d candidates", templates[i].String(), len(found))
		}

		patterns = append(patterns, found...)
	}

	scan := Aggregate(filterByScanType(patterns, scanType))
	log.Debugf("scan finished: %d patterns, %d complete, %d potential",
		len(scan.Patterns), len(scan.CompletedPatterns), len(scan.PotentialPatterns))
	return scan, nil
}

func filterByScanType(patterns []types.HarmonicPattern, scanType types.ScanType) []types.HarmonicPattern {
	if scanType == types.ScanTypeAll || scanType == "" {
		return patterns
	}

	wantComplete := scanType == types.ScanTypeComplete
	var out []types.HarmonicPattern
	for _, p := range patterns {
		if p.Completion.Complete == wantComplete {
			out = append(out, p)
		}
	}

	return out
}

package harmonic

import (
	"errors"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/c9s/harmonic/pkg/datatype/floats"
	"github.com/c9s/harmonic/pkg/types"
)

// ErrMissingCompletionPoint is returned when trading levels are
// requested for a pattern that has neither an actual nor a projected D
// point.
var ErrMissingCompletionPoint = errors.New("pattern has no completion point")

// stopBufferRatio sizes the stop-loss buffer beyond X as a fraction of
// the XA leg.
const stopBufferRatio = 0.236

// targetMultiples are the Fibonacci multiples of the AD distance at
// which profit targets are laddered out from D.
var targetMultiples = []float64{0.382, 0.618, 0.786, 1.0, 1.272}

// CalculateLevels derives entry, stop-loss, and the profit target
// ladder for a pattern. The actual D point is used when present,
// otherwise the given projected price. Candidates whose projection is
// not a tradable positive price, or whose stop collapses onto the
// entry, are rejected.
func CalculateLevels(pattern types.HarmonicPattern, projectedD float64) (types.TradingLevels, error) {
	entry := projectedD
	if pattern.D != nil {
		entry = pattern.D.Price
	}
	if entry == 0 {
		return types.TradingLevels{}, pkgerrors.Wrapf(ErrMissingCompletionPoint,
			"%s %s", pattern.Direction, pattern.Type)
	}
	if entry < 0 {
		return types.TradingLevels{}, pkgerrors.Errorf("projected completion %v is not a tradable price", entry)
	}

	bullish := pattern.Direction == types.DirectionBullish

	xaDistance := math.Abs(pattern.A.Price - pattern.X.Price)
	stopLoss := pattern.X.Price + stopBufferRatio*xaDistance
	if bullish {
		stopLoss = pattern.X.Price - stopBufferRatio*xaDistance
	}

	risk := math.Abs(entry - stopLoss)
	if risk == 0 {
		return types.TradingLevels{}, pkgerrors.Errorf("entry %v coincides with stop-loss, no measurable risk", entry)
	}

	// Targets fan out from D against the XA leg, the direction the
	// pattern is expected to reverse into.
	adDistance := math.Abs(entry - pattern.A.Price)
	targets := make(floats.Slice, 0, len(targetMultiples))
	for _, m := range targetMultiples {
		if bullish {
			targets = append(targets, entry+m*adDistance)
		} else {
			targets = append(targets, entry-m*adDistance)
		}
	}

	return types.TradingLevels{
		Entry:      entry,
		StopLoss:   stopLoss,
		Targets:    targets,
		RiskReward: math.Abs(targets[0]-entry) / risk,
	}, nil
}

package indicator

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/c9s/harmonic/pkg/types"
)

// DefaultPivotWindow is the number of bars checked on each side of a
// candidate extremum.
const DefaultPivotWindow = 3

// ErrInsufficientData is returned when a price series is too short to
// produce any meaningful swing structure.
var ErrInsufficientData = errors.New("insufficient data points")

// PivotFinder locates swing highs and swing lows in a price series.
//
// A sample at index i is a pivot high when its price is strictly greater
// than every price in the surrounding window [i-w, i+w], and a pivot low
// when strictly smaller. Samples closer than w bars to either end of the
// series are never reported, because their window is incomplete.
type PivotFinder struct {
	// Window is the number of bars on each side that must confirm the
	// extremum. Zero falls back to DefaultPivotWindow.
	Window int

	// MinPoints rejects series shorter than this with
	// ErrInsufficientData. Zero disables the check.
	MinPoints int
}

// Find scans the series and returns the detected pivots in
// chronological order. A flat window produces no pivot since ties are
// not strict extrema.
func (f *PivotFinder) Find(series types.PriceSeries) (types.PivotPoints, error) {
	n := series.Length()
	if f.MinPoints > 0 && n < f.MinPoints {
		return nil, pkgerrors.Wrapf(ErrInsufficientData, "%d points given, need at least %d", n, f.MinPoints)
	}

	w := f.Window
	if w <= 0 {
		w = DefaultPivotWindow
	}

	var pivots types.PivotPoints
	for i := w; i < n-w; i++ {
		high, low := true, true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if series[j].Price >= series[i].Price {
				high = false
			}
			if series[j].Price <= series[i].Price {
				low = false
			}
			if !high && !low {
				break
			}
		}

		switch {
		case high:
			pivots = append(pivots, types.PivotPoint{PricePoint: series[i], Kind: types.PivotHigh})
		case low:
			pivots = append(pivots, types.PivotPoint{PricePoint: series[i], Kind: types.PivotLow})
		}
	}

	return pivots, nil
}

// FindPivots runs a PivotFinder with the given window and no minimum
// length requirement.
func FindPivots(series types.PriceSeries, window int) (types.PivotPoints, error) {
	f := &PivotFinder{Window: window}
	return f.Find(series)
}

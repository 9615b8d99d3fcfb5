package types

// PivotKind classifies a pivot as a local high or a local low.
type PivotKind string

const (
	PivotHigh = PivotKind("high")
	PivotLow  = PivotKind("low")
)

// PivotPoint is a local price extremum relative to a symmetric window of neighbors.
type PivotPoint struct {
	PricePoint
	Kind PivotKind `json:"kind"`
}

// PivotPoints is a chronological list of pivots.
type PivotPoints []PivotPoint

// Highs returns the prices of the high pivots in chronological order.
func (p PivotPoints) Highs() (highs []float64) {
	for _, pivot := range p {
		if pivot.Kind == PivotHigh {
			highs = append(highs, pivot.Price)
		}
	}
	return highs
}

// Lows returns the prices of the low pivots in chronological order.
func (p PivotPoints) Lows() (lows []float64) {
	for _, pivot := range p {
		if pivot.Kind == PivotLow {
			lows = append(lows, pivot.Price)
		}
	}
	return lows
}

// Tail returns the most recent size pivots as a copy.
func (p PivotPoints) Tail(size int) PivotPoints {
	length := len(p)
	if length <= size {
		win := make(PivotPoints, length)
		copy(win, p)
		return win
	}

	win := make(PivotPoints, size)
	copy(win, p[length-size:])
	return win
}

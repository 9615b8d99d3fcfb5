package types

import (
	"errors"
	"time"

	"github.com/c9s/harmonic/pkg/datatype/floats"
)

var (
	// ErrSeriesLengthMismatch is returned when the price and timestamp arrays differ in length.
	ErrSeriesLengthMismatch = errors.New("price and timestamp arrays must have the same length")

	// ErrNonPositivePrice is returned when the series contains a zero or negative price.
	ErrNonPositivePrice = errors.New("series prices must be positive")

	// ErrTimestampOrder is returned when the series timestamps are not monotonically non-decreasing.
	ErrTimestampOrder = errors.New("series timestamps must be non-decreasing")
)

// PricePoint is one sampled price observation.
// Index is the point's offset in the original series and is carried around
// so that bar-spacing checks never have to be recomputed from timestamps.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	Index int       `json:"index"`
}

// PriceSeries is a chronological sequence of price points.
type PriceSeries []PricePoint

// NewPriceSeries builds a validated series from two parallel arrays.
func NewPriceSeries(prices []float64, times []time.Time) (PriceSeries, error) {
	if len(prices) != len(times) {
		return nil, ErrSeriesLengthMismatch
	}

	series := make(PriceSeries, len(prices))
	for i, price := range prices {
		if price <= 0.0 {
			return nil, ErrNonPositivePrice
		}

		if i > 0 && times[i].Before(times[i-1]) {
			return nil, ErrTimestampOrder
		}

		series[i] = PricePoint{
			Time:  times[i],
			Price: price,
			Index: i,
		}
	}

	return series, nil
}

func (s PriceSeries) Length() int {
	return len(s)
}

// Prices returns the raw price values of the series.
func (s PriceSeries) Prices() floats.Slice {
	values := make(floats.Slice, len(s))
	for i, p := range s {
		values[i] = p.Price
	}
	return values
}

// Last returns the most recent point of the series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// BarDuration estimates the sampling interval from the first and last timestamps.
func (s PriceSeries) BarDuration() time.Duration {
	if len(s) < 2 {
		return 0
	}
	span := s[len(s)-1].Time.Sub(s[0].Time)
	return span / time.Duration(len(s)-1)
}

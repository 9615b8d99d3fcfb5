package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPivotPoints_HighsLows(t *testing.T) {
	pivots := PivotPoints{
		{PricePoint: PricePoint{Price: 200, Index: 5}, Kind: PivotHigh},
		{PricePoint: PricePoint{Price: 100, Index: 30}, Kind: PivotLow},
		{PricePoint: PricePoint{Price: 161.8, Index: 55}, Kind: PivotHigh},
		{PricePoint: PricePoint{Price: 123.6, Index: 80}, Kind: PivotLow},
	}

	assert.Equal(t, []float64{200, 161.8}, pivots.Highs())
	assert.Equal(t, []float64{100, 123.6}, pivots.Lows())
}

func TestPivotPoints_Tail(t *testing.T) {
	pivots := PivotPoints{
		{PricePoint: PricePoint{Index: 1}},
		{PricePoint: PricePoint{Index: 2}},
		{PricePoint: PricePoint{Index: 3}},
	}

	tail := pivots.Tail(2)
	assert.Len(t, tail, 2)
	assert.Equal(t, 2, tail[0].Index)
	assert.Equal(t, 3, tail[1].Index)

	assert.Len(t, pivots.Tail(10), 3)

	// the returned window is a copy
	tail[0].Index = 99
	assert.Equal(t, 2, pivots[1].Index)
}

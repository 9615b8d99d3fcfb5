package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/c9s/harmonic/pkg/types"
)

func buildSeries(t *testing.T, prices []float64) types.PriceSeries {
	t.Helper()

	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, len(prices))
	for i := range prices {
		times[i] = start.Add(time.Duration(i) * time.Minute)
	}

	series, err := types.NewPriceSeries(prices, times)
	assert.NoError(t, err)
	return series
}

func TestPivotFinder_Find(t *testing.T) {
	tests := []struct {
		name      string
		prices    []float64
		window    int
		wantKinds []types.PivotKind
		wantIdx   []int
	}{
		{
			name:      "single peak",
			prices:    []float64{1, 2, 3, 10, 3, 2, 1},
			window:    3,
			wantKinds: []types.PivotKind{types.PivotHigh},
			wantIdx:   []int{3},
		},
		{
			name:      "single valley",
			prices:    []float64{10, 9, 8, 1, 8, 9, 10},
			window:    3,
			wantKinds: []types.PivotKind{types.PivotLow},
			wantIdx:   []int{3},
		},
		{
			name:      "zigzag alternates",
			prices:    []float64{5, 6, 7, 12, 7, 6, 2, 6, 7, 11, 7, 6, 5},
			window:    3,
			wantKinds: []types.PivotKind{types.PivotHigh, types.PivotLow, types.PivotHigh},
			wantIdx:   []int{3, 6, 9},
		},
		{
			name:      "flat top is not strict",
			prices:    []float64{1, 2, 3, 9, 9, 3, 2, 1},
			window:    3,
			wantKinds: nil,
			wantIdx:   nil,
		},
		{
			name:      "monotonic has no pivots",
			prices:    []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
			window:    3,
			wantKinds: nil,
			wantIdx:   nil,
		},
		{
			name:      "edges are excluded",
			prices:    []float64{100, 1, 2, 3, 4, 5, 90},
			window:    3,
			wantKinds: nil,
			wantIdx:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := buildSeries(t, tt.prices)

			finder := &PivotFinder{Window: tt.window}
			pivots, err := finder.Find(series)
			assert.NoError(t, err)
			assert.Len(t, pivots, len(tt.wantKinds))

			for i, p := range pivots {
				assert.Equal(t, tt.wantKinds[i], p.Kind, "pivot %d kind", i)
				assert.Equal(t, tt.wantIdx[i], p.Index, "pivot %d index", i)
			}
		})
	}
}

func TestPivotFinder_MinPoints(t *testing.T) {
	series := buildSeries(t, []float64{1, 2, 3, 4, 5})

	finder := &PivotFinder{Window: 3, MinPoints: 80}
	_, err := finder.Find(series)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPivotFinder_DefaultWindow(t *testing.T) {
	prices := []float64{1, 2, 3, 10, 3, 2, 1}
	series := buildSeries(t, prices)

	finder := &PivotFinder{}
	pivots, err := finder.Find(series)
	assert.NoError(t, err)
	assert.Len(t, pivots, 1)
	assert.Equal(t, types.PivotHigh, pivots[0].Kind)
}

func TestFindPivots_Chronological(t *testing.T) {
	prices := []float64{5, 6, 7, 12, 7, 6, 2, 6, 7, 11, 7, 6, 5}
	series := buildSeries(t, prices)

	pivots, err := FindPivots(series, 3)
	assert.NoError(t, err)

	for i := 1; i < len(pivots); i++ {
		assert.True(t, pivots[i].Index > pivots[i-1].Index, "pivots must be ordered by index")
		assert.True(t, pivots[i].Time.After(pivots[i-1].Time), "pivots must be ordered by time")
	}
}

package csvsource

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/c9s/harmonic/pkg/types"
)

var _ PriceReader = (*CSVPriceReader)(nil)

// CSVPriceReader reads sampled price points from CSV data.
type CSVPriceReader struct {
	csv     *csv.Reader
	decoder CSVPriceDecoder
}

// MakeCSVPriceReader is a factory method type that creates a new
// CSVPriceReader for one file format.
type MakeCSVPriceReader func(csv *csv.Reader) *CSVPriceReader

// NewCSVPriceReader creates a new CSVPriceReader with the default
// simple decoder.
func NewCSVPriceReader(csv *csv.Reader) *CSVPriceReader {
	return &CSVPriceReader{
		csv:     csv,
		decoder: SimpleCSVPriceDecoder,
	}
}

// NewCSVPriceReaderWithDecoder creates a new CSVPriceReader with the
// given decoder.
func NewCSVPriceReaderWithDecoder(csv *csv.Reader, decoder CSVPriceDecoder) *CSVPriceReader {
	return &CSVPriceReader{
		csv:     csv,
		decoder: decoder,
	}
}

// Read reads the next price point from the underlying CSV data. The
// point's index is left for ReadAll to assign.
func (r *CSVPriceReader) Read() (time.Time, float64, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return time.Time{}, 0, err
	}

	return r.decoder(rec)
}

// ReadAll drains the CSV data into a validated price series.
func (r *CSVPriceReader) ReadAll() (types.PriceSeries, error) {
	var prices []float64
	var times []time.Time
	for {
		t, price, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		times = append(times, t)
		prices = append(prices, price)
	}

	return types.NewPriceSeries(prices, times)
}

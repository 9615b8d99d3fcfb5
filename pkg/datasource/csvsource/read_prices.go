package csvsource

import (
	"encoding/csv"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/c9s/harmonic/pkg/types"
)

// PriceReader is an interface for reading chronological price samples.
type PriceReader interface {
	Read() (time.Time, float64, error)
	ReadAll() (types.PriceSeries, error)
}

// ReadPricesFromCSV reads all the .csv files in a given directory or a
// single file into one price series, using the simple decoder. The
// series is re-validated after concatenation, so files that do not line
// up chronologically are rejected.
func ReadPricesFromCSV(path string) (types.PriceSeries, error) {
	return ReadPricesFromCSVWithDecoder(path, MakeCSVPriceReader(NewCSVPriceReader))
}

// ReadPricesFromCSVWithDecoder permits using a custom CSVPriceReader.
func ReadPricesFromCSVWithDecoder(path string, maker MakeCSVPriceReader) (types.PriceSeries, error) {
	var prices []float64
	var times []time.Time

	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		//nolint:errcheck // Read ops only so safe to ignore err return
		defer file.Close()

		reader := maker(csv.NewReader(file))
		series, err := reader.ReadAll()
		if err != nil {
			return errors.Wrapf(err, "cannot read %s", path)
		}

		for _, p := range series {
			times = append(times, p.Time)
			prices = append(prices, p.Price)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return types.NewPriceSeries(prices, times)
}

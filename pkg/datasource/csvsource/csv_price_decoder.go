package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// MetaTraderTimeFormat is the time format expected by the MetaTrader
// decoder when cols [0] and [1] are used.
const MetaTraderTimeFormat = "02/01/2006 15:04"

var (
	// ErrNotEnoughColumns is returned when the CSV price record does not have enough columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidTimeFormat is returned when the CSV price record does not have a valid timestamp.
	ErrInvalidTimeFormat = errors.New("cannot parse time string")

	// ErrInvalidPriceFormat is returned when the CSV price record does not have a valid decimal price.
	ErrInvalidPriceFormat = errors.New("price must be in valid decimal format")

	// ErrUnknownFormat is returned when the source format name does not match any decoder.
	ErrUnknownFormat = errors.New("unknown source format")
)

// CSVPriceDecoder is an extension point for CSVPriceReader to support
// custom file formats.
type CSVPriceDecoder func(record []string) (time.Time, float64, error)

// SimpleCSVPriceDecoder decodes a "timestamp,price" record. The
// timestamp is unix seconds, or unix milliseconds when it is too large
// to be a plausible second count.
func SimpleCSVPriceDecoder(record []string) (time.Time, float64, error) {
	if len(record) < 2 {
		return time.Time{}, 0, ErrNotEnoughColumns
	}

	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidTimeFormat
	}

	t := time.Unix(ts, 0)
	if ts > 1e12 {
		t = time.UnixMilli(ts)
	}

	price, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidPriceFormat
	}

	return t.UTC(), price, nil
}

// NewBinanceCSVPriceReader creates a new CSVPriceReader for Binance
// kline exports.
func NewBinanceCSVPriceReader(csv *csv.Reader) *CSVPriceReader {
	return &CSVPriceReader{
		csv:     csv,
		decoder: BinanceCSVPriceDecoder,
	}
}

// BinanceCSVPriceDecoder takes the close price of a Binance or Bybit
// kline record, stamped with the kline open time.
func BinanceCSVPriceDecoder(record []string) (time.Time, float64, error) {
	if len(record) < 5 {
		return time.Time{}, 0, ErrNotEnoughColumns
	}

	msec, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidTimeFormat
	}

	price, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidPriceFormat
	}

	return time.UnixMilli(msec).UTC(), price, nil
}

// NewMetaTraderCSVPriceReader creates a new CSVPriceReader for
// MetaTrader exports.
func NewMetaTraderCSVPriceReader(csv *csv.Reader) *CSVPriceReader {
	csv.Comma = ';'
	return &CSVPriceReader{
		csv:     csv,
		decoder: MetaTraderCSVPriceDecoder,
	}
}

// MetaTraderCSVPriceDecoder takes the close price of a MetaTrader
// OHLC record.
func MetaTraderCSVPriceDecoder(record []string) (time.Time, float64, error) {
	if len(record) < 6 {
		return time.Time{}, 0, ErrNotEnoughColumns
	}

	tStr := fmt.Sprintf("%s %s", record[0], record[1])
	t, err := time.Parse(MetaTraderTimeFormat, tStr)
	if err != nil {
		return time.Time{}, 0, ErrInvalidTimeFormat
	}

	price, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return time.Time{}, 0, ErrInvalidPriceFormat
	}

	return t, price, nil
}

// ReaderForFormat maps a source format name from the configuration to
// its reader factory.
func ReaderForFormat(format string) (MakeCSVPriceReader, error) {
	switch format {
	case "", "simple":
		return NewCSVPriceReader, nil
	case "binance":
		return NewBinanceCSVPriceReader, nil
	case "metatrader":
		return NewMetaTraderCSVPriceReader, nil
	}

	return nil, pkgerrors.Wrap(ErrUnknownFormat, format)
}

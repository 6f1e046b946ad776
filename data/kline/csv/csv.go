package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/log"
)

var (
	errMissingColumn = errors.New("missing required column")
	errInvalidPrice  = errors.New("invalid price")
)

// millisecondThreshold separates unix second timestamps from millisecond ones
const millisecondThreshold = 100_000_000_000

var timeColumns = []string{"open_time", "timestamp", "time", "datetime", "date"}

// LoadFromFile opens a CSV file and loads its candles
func LoadFromFile(path string) (candles []kline.Candle, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(log.DataLoader, closeErr)
		}
	}()
	candles, err = Load(f)
	if err != nil {
		return nil, fmt.Errorf("%v %w", path, err)
	}
	log.Infof(log.DataLoader, "loaded %d candles from %v", len(candles), path)
	return candles, nil
}

// Load reads candles from a CSV stream with a header row. Columns are matched
// by name; empty or NaN price cells are loaded as missing values. The result
// is sorted by time
func Load(r io.Reader) ([]kline.Candle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var candles []kline.Candle
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		c := kline.Candle{}
		c.Time, err = parseTime(row[cols.time])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for _, p := range []struct {
			idx int
			dst *decimal.NullDecimal
		}{
			{cols.open, &c.Open},
			{cols.high, &c.High},
			{cols.low, &c.Low},
			{cols.close, &c.Close},
			{cols.volume, &c.Volume},
		} {
			if p.idx < 0 {
				continue
			}
			*p.dst, err = parsePrice(row[p.idx])
			if err != nil {
				return nil, fmt.Errorf("line %d column %v: %w", line, header[p.idx], err)
			}
		}
		candles = append(candles, c)
	}
	kline.SortCandles(candles)
	return candles, nil
}

type columns struct {
	time, open, high, low, close, volume int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{time: -1, open: -1, high: -1, low: -1, close: -1, volume: -1}
	index := make(map[string]int, len(header))
	for i := range header {
		index[strings.ToLower(strings.TrimSpace(header[i]))] = i
	}
	for _, name := range timeColumns {
		if i, ok := index[name]; ok {
			cols.time = i
			break
		}
	}
	if cols.time < 0 {
		return cols, fmt.Errorf("%w: time", errMissingColumn)
	}
	for name, dst := range map[string]*int{
		"open":  &cols.open,
		"high":  &cols.high,
		"low":   &cols.low,
		"close": &cols.close,
	} {
		i, ok := index[name]
		if !ok {
			return cols, fmt.Errorf("%w: %v", errMissingColumn, name)
		}
		*dst = i
	}
	if i, ok := index["volume"]; ok {
		cols.volume = i
	}
	return cols, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v <= 0 {
			return time.Time{}, fmt.Errorf("%w '%v'", kline.ErrMalformedTimestamp, s)
		}
		if v >= millisecondThreshold {
			return time.UnixMilli(v).UTC(), nil
		}
		return time.Unix(v, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w '%v'", kline.ErrMalformedTimestamp, s)
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null":
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// NaN and infinite cells are gaps
		if f, fErr := strconv.ParseFloat(s, 64); fErr == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, fmt.Errorf("%w '%v'", errInvalidPrice, s)
	}
	return decimal.NewNullDecimal(d), nil
}

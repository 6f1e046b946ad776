package kline

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var errInvalidInterval = errors.New("interval must be greater than zero")

// TimeRange is a half open period [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Interval returns the smallest gap between consecutive candles
func Interval(candles []Candle) time.Duration {
	var resp time.Duration
	for i := 1; i < len(candles); i++ {
		gap := candles[i].Time.Sub(candles[i-1].Time)
		if gap > 0 && (resp == 0 || gap < resp) {
			resp = gap
		}
	}
	return resp
}

// MissingRanges returns every period where consecutive candles are further
// apart than interval. Candles which are present but missing prices are not
// reported
func MissingRanges(candles []Candle, interval time.Duration) ([]TimeRange, error) {
	if interval <= 0 {
		return nil, errInvalidInterval
	}
	var resp []TimeRange
	for i := 1; i < len(candles); i++ {
		expected := candles[i-1].Time.Add(interval)
		if candles[i].Time.After(expected) {
			resp = append(resp, TimeRange{Start: expected, End: candles[i].Time})
		}
	}
	return resp, nil
}

// Resample aggregates ascending candles into buckets of interval, truncated
// as time.Truncate does. Open is the first present open, close the last present
// close, high and low the extremes and volume the sum of what is present
func Resample(candles []Candle, interval time.Duration) ([]Candle, error) {
	if interval <= 0 {
		return nil, errInvalidInterval
	}
	if err := Validate(candles); err != nil {
		return nil, err
	}
	var resp []Candle
	for i := range candles {
		bucket := candles[i].Time.Truncate(interval)
		if len(resp) == 0 || !resp[len(resp)-1].Time.Equal(bucket) {
			resp = append(resp, Candle{Time: bucket})
		}
		merge(&resp[len(resp)-1], &candles[i])
	}
	return resp, nil
}

func merge(dst, src *Candle) {
	if !dst.Open.Valid {
		dst.Open = src.Open
	}
	if src.Close.Valid {
		dst.Close = src.Close
	}
	if src.High.Valid && (!dst.High.Valid || src.High.Decimal.GreaterThan(dst.High.Decimal)) {
		dst.High = src.High
	}
	if src.Low.Valid && (!dst.Low.Valid || src.Low.Decimal.LessThan(dst.Low.Decimal)) {
		dst.Low = src.Low
	}
	if src.Volume.Valid {
		dst.Volume = decimal.NewNullDecimal(dst.Volume.Decimal.Add(src.Volume.Decimal))
	}
}

// String implements the stringer interface
func (t TimeRange) String() string {
	return fmt.Sprintf("%v to %v", t.Start.UTC().Format(time.RFC3339), t.End.UTC().Format(time.RFC3339))
}

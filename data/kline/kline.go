package kline

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// String implements the stringer interface
func (f Field) String() string {
	switch f {
	case Open:
		return "open"
	case High:
		return "high"
	case Low:
		return "low"
	case Close:
		return "close"
	default:
		return "unset"
	}
}

// ParseField returns the Field matching the supplied name. An empty name
// defaults to Close
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return Open, nil
	case "high":
		return High, nil
	case "low":
		return Low, nil
	case "close", "":
		return Close, nil
	}
	return UnsetField, fmt.Errorf("%w '%v'", ErrUnsupportedField, s)
}

// MarshalText implements encoding.TextMarshaler
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// NewPrice converts a float to an optional price. NaN and infinite values are
// treated as missing
func NewPrice(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}

// Price returns the value of the requested field and whether it is present
func (c *Candle) Price(f Field) (decimal.Decimal, bool) {
	var v decimal.NullDecimal
	switch f {
	case Open:
		v = c.Open
	case High:
		v = c.High
	case Low:
		v = c.Low
	case Close:
		v = c.Close
	}
	return v.Decimal, v.Valid
}

// IsComplete returns whether every price field is present. Volume is optional
func (c *Candle) IsComplete() bool {
	return c.Open.Valid && c.High.Valid && c.Low.Valid && c.Close.Valid
}

// Validate checks a candle series is non-empty and that every timestamp is
// set and strictly ascending
func Validate(candles []Candle) error {
	if len(candles) == 0 {
		return ErrEmptyDataFeed
	}
	for i := range candles {
		if candles[i].Time.IsZero() {
			return fmt.Errorf("%w: candle %d has no time", ErrMalformedTimestamp, i)
		}
		if i > 0 && !candles[i].Time.After(candles[i-1].Time) {
			return fmt.Errorf("%w: candle %d at %v does not follow %v",
				ErrMalformedTimestamp, i, candles[i].Time, candles[i-1].Time)
		}
	}
	return nil
}

package kline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyDataFeed is returned when a run is started without any candles
	ErrEmptyDataFeed = errors.New("empty data feed")
	// ErrMalformedTimestamp is returned when a candle time is unset or not
	// strictly ascending
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	// ErrUnsupportedField is returned when a price field name is not recognised
	ErrUnsupportedField = errors.New("unsupported price field")
)

// Field names a price column of a candle
type Field uint8

// Price fields
const (
	UnsetField Field = iota
	Open
	High
	Low
	Close
)

// Candle is a single row of market data. A price which is not Valid models a
// missing value in the source data
type Candle struct {
	Time   time.Time           `json:"time"`
	Open   decimal.NullDecimal `json:"open"`
	High   decimal.NullDecimal `json:"high"`
	Low    decimal.NullDecimal `json:"low"`
	Close  decimal.NullDecimal `json:"close"`
	Volume decimal.NullDecimal `json:"volume"`
}

// Stream is a forward only cursor over a candle series
type Stream struct {
	candles []Candle
	offset  int
	latest  *Candle
}

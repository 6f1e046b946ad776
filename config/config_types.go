package config

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/data/kline"
)

var (
	errNegativeRate          = errors.New("rate cannot be negative")
	errInvalidLeverage       = errors.New("leverage must be at least 1")
	errInvalidFundingHour    = errors.New("funding hour must be between 0 and 23")
	errNegativePrecision     = errors.New("precision cannot be negative")
	errStrategyNameUnset     = errors.New("strategy name unset")
	errInitialFundsUnset     = errors.New("initial funds must be greater than zero")
	errNoDataSource          = errors.New("one data source must be set")
	errMultipleDataSources   = errors.New("only one data source can be set")
	errCSVPathUnset          = errors.New("csv data path unset")
	errDatabaseSettingsUnset = errors.New("database path, symbol and date range are required")
	errFileNotFound          = errors.New("file not found")
)

// Default simulation values
var (
	DefaultFeeRate          = decimal.NewFromFloat(0.001)
	DefaultFundingRate      = decimal.NewFromFloat(0.0001)
	DefaultFundingRateHours = []int{0, 8, 16}
)

// Default simulation values
const (
	DefaultLeverage       int64 = 1
	DefaultBasePrecision  int32 = 8
	DefaultQuotePrecision int32 = 2
	DefaultPricePrecision int32 = 2
)

// Config holds the fee, funding, leverage and presentation settings of a
// simulation. Rates are fractions, eg 0.001 is 0.1%
type Config struct {
	feeRate          decimal.Decimal
	fundingRate      decimal.Decimal
	fundingRateHours [24]bool
	leverage         int64
	basePrecision    int32
	quotePrecision   int32
	pricePrecision   int32
	markPriceField   kline.Field
}

// RunConfig is the JSON file which describes a single backtesting run
type RunConfig struct {
	Nickname           string             `json:"nickname"`
	Goal               string             `json:"goal"`
	StrategySettings   StrategySettings   `json:"strategy-settings"`
	SimulationSettings SimulationSettings `json:"simulation-settings"`
	InitialFunds       decimal.Decimal    `json:"initial-funds"`
	DataSettings       DataSettings       `json:"data-settings"`
}

// StrategySettings names the strategy to load and any custom settings to
// apply to it
type StrategySettings struct {
	Name           string         `json:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty"`
}

// SimulationSettings are expressed as percentages, eg 0.1 is 0.1%. Unset
// values fall back to the defaults
type SimulationSettings struct {
	FeeRatePercent     *decimal.Decimal `json:"fee-rate-percent,omitempty"`
	FundingRatePercent *decimal.Decimal `json:"funding-rate-percent,omitempty"`
	FundingRateHours   []int            `json:"funding-rate-hours,omitempty"`
	Leverage           int64            `json:"leverage,omitempty"`
	BasePrecision      *int32           `json:"base-precision,omitempty"`
	QuotePrecision     *int32           `json:"quote-precision,omitempty"`
	PricePrecision     *int32           `json:"price-precision,omitempty"`
	MarkPriceField     kline.Field      `json:"mark-price-field,omitempty"`
}

// DataSettings holds exactly one candle source
type DataSettings struct {
	CSVData      *CSVData      `json:"csv-data,omitempty"`
	DatabaseData *DatabaseData `json:"database-data,omitempty"`
}

// CSVData loads candles from a CSV file with a header row
type CSVData struct {
	FullPath string `json:"full-path"`
}

// DatabaseData loads candles for a symbol from a sqlite database
type DatabaseData struct {
	Path      string    `json:"path"`
	Symbol    string    `json:"symbol"`
	StartDate time.Time `json:"start-date"`
	EndDate   time.Time `json:"end-date"`
}

package report

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/position"
)

// ErrEmptyReport is returned when statistics are requested from a run which
// recorded no transactions
var ErrEmptyReport = errors.New("report is empty, no transactions were recorded")

// Meta describes the run a report was generated from
type Meta struct {
	ID               uuid.UUID     `json:"id"`
	Strategy         string        `json:"strategy"`
	StartDate        time.Time     `json:"start-date"`
	EndDate          time.Time     `json:"end-date"`
	CandlesProcessed int64         `json:"candles-processed"`
	CandlesSkipped   int64         `json:"candles-skipped"`
	RunDuration      time.Duration `json:"run-duration"`
}

// Settings records the simulation settings in force when the run ended
type Settings struct {
	FeeRate          decimal.Decimal `json:"fee-rate"`
	FundingRate      decimal.Decimal `json:"funding-rate"`
	FundingRateHours []int           `json:"funding-rate-hours"`
	Leverage         int64           `json:"leverage"`
	BasePrecision    int32           `json:"base-precision"`
	QuotePrecision   int32           `json:"quote-precision"`
	PricePrecision   int32           `json:"price-precision"`
}

// Report is the read-only analysis of a completed run. Tables are rounded to
// the configured precisions
type Report struct {
	Meta           Meta                    `json:"meta"`
	Settings       Settings                `json:"settings"`
	StartingCash   decimal.Decimal         `json:"starting-cash"`
	FinalCash      decimal.Decimal         `json:"final-cash"`
	OpenPositions  []OpenPosition          `json:"open-positions,omitempty"`
	Trades         []ledger.Trade          `json:"trades"`
	Transactions   []ledger.Transaction    `json:"transactions"`
	Snapshots      []ledger.EquitySnapshot `json:"snapshots"`
	DailyEquity    []EquityPoint           `json:"daily-equity,omitempty"`
	MonthlyReturns []PeriodReturn          `json:"monthly-returns,omitempty"`
	AnnualReturns  []PeriodReturn          `json:"annual-returns,omitempty"`
	Drawdowns      []Drawdown              `json:"drawdowns,omitempty"`
	Stats          *Statistics             `json:"statistics,omitempty"`
}

// ValueAtTime is an individual iteration of value at a time
type ValueAtTime struct {
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// EquityPoint is the realised equity at the end of a calendar day and the
// fractional change from the previous day
type EquityPoint struct {
	Time   time.Time       `json:"time"`
	Equity decimal.Decimal `json:"equity"`
	Return decimal.Decimal `json:"return"`
}

// PeriodReturn is the realised equity at the end of a month or year and the
// percentage change from the previous period
type PeriodReturn struct {
	Time          time.Time       `json:"time"`
	Equity        decimal.Decimal `json:"equity"`
	ReturnPercent decimal.Decimal `json:"return-percent"`
}

// Drawdown is an episode where realised equity stays below a previous peak.
// From is the day the peak was set and To the last day below it
type Drawdown struct {
	Highest         ValueAtTime     `json:"highest"`
	Lowest          ValueAtTime     `json:"lowest"`
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Duration        time.Duration   `json:"duration"`
	DrawdownPercent decimal.Decimal `json:"drawdown-percent"`
	Recovered       bool            `json:"recovered"`
}

// TradeTiming summarises a set of gaps between trade rows
type TradeTiming struct {
	Count   int           `json:"count"`
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
}

// TradeCadence is the average number of opens per day, and per rolling week,
// month and year
type TradeCadence struct {
	Daily   decimal.Decimal `json:"daily"`
	Weekly  decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal `json:"monthly"`
	Annual  decimal.Decimal `json:"annual"`
}

// Statistics holds the scalar results of a run. Ratios and returns ending in
// Percent are percentages, drawdowns are negative
type Statistics struct {
	TotalFees                   decimal.Decimal `json:"total-fees"`
	TotalCommission             decimal.Decimal `json:"total-commission"`
	TotalFunding                decimal.Decimal `json:"total-funding"`
	TotalRealisedPNL            decimal.Decimal `json:"total-realised-pnl"`
	Turnover                    decimal.Decimal `json:"turnover"`
	EndingEquity                decimal.Decimal `json:"ending-equity"`
	HighestEquity               ValueAtTime     `json:"highest-equity"`
	LowestEquity                ValueAtTime     `json:"lowest-equity"`
	CumulativeReturn            decimal.Decimal `json:"cumulative-return"`
	CumulativeReturnPercent     decimal.Decimal `json:"cumulative-return-percent"`
	AverageDailyReturnPercent   decimal.Decimal `json:"average-daily-return-percent"`
	AverageWeeklyReturnPercent  decimal.Decimal `json:"average-weekly-return-percent"`
	AverageMonthlyReturnPercent decimal.Decimal `json:"average-monthly-return-percent"`
	AverageAnnualReturnPercent  decimal.Decimal `json:"average-annual-return-percent"`
	SharpeRatio                 decimal.Decimal `json:"sharpe-ratio"`
	MaxDrawdown                 decimal.Decimal `json:"max-drawdown"`
	MaxDrawdownPercent          decimal.Decimal `json:"max-drawdown-percent"`
	MaxDrawdownTime             time.Time       `json:"max-drawdown-time"`
	WinPercent                  decimal.Decimal `json:"win-percent"`
	LossPercent                 decimal.Decimal `json:"loss-percent"`
	LongPercent                 decimal.Decimal `json:"long-percent"`
	ShortPercent                decimal.Decimal `json:"short-percent"`
	TotalOpens                  int64           `json:"total-opens"`
	TotalCloses                 int64           `json:"total-closes"`
	Cadence                     TradeCadence    `json:"cadence"`
	Intervals                   TradeTiming     `json:"intervals"`
	Durations                   TradeTiming     `json:"durations"`
}

// OpenPosition is a position still held when the run finished
type OpenPosition struct {
	position.Position
	LiquidationPrice decimal.Decimal `json:"liquidation-price"`
	BreakevenPrice   decimal.Decimal `json:"breakeven-price"`
}

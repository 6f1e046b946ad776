package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var errTimeUnset = errors.New("time unset")

// Side is the direction of a trade
type Side string

// Trade sides
const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// TransactionType classifies a cash movement
type TransactionType string

// Transaction types
const (
	Commission  TransactionType = "COMMISSION"
	FundingFee  TransactionType = "FUNDING_FEE"
	RealisedPNL TransactionType = "REALIZED_PNL"
)

// Trade records a single open or close. RealisedPNL is only present on
// trades which close exposure
type Trade struct {
	Time        time.Time           `json:"time"`
	Side        Side                `json:"side"`
	Quantity    decimal.Decimal     `json:"quantity"`
	Price       decimal.Decimal     `json:"price"`
	Notional    decimal.Decimal     `json:"notional"`
	Fee         decimal.Decimal     `json:"fee"`
	RealisedPNL decimal.NullDecimal `json:"realised-pnl"`
}

// Transaction is a signed cash movement. Costs are negative
type Transaction struct {
	Time   time.Time       `json:"time"`
	Type   TransactionType `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// EquitySnapshot is the account value at a point in time
type EquitySnapshot struct {
	Time   time.Time       `json:"time"`
	Equity decimal.Decimal `json:"equity"`
}

// Ledger holds the append only trade, transaction and equity history of a
// run
type Ledger struct {
	m            sync.RWMutex
	trades       []Trade
	transactions []Transaction
	snapshots    []EquitySnapshot
}

package position

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/data/kline"
)

var (
	errInvalidSide     = errors.New("invalid position side")
	errInvalidPrice    = errors.New("price must be greater than zero")
	errInvalidSize     = errors.New("size must be greater than zero")
	errInvalidLeverage = errors.New("leverage must be at least 1")
	errTimeUnset       = errors.New("time unset")
)

// Side is the direction of a position
type Side string

// Position sides
const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// Position is a directional exposure. Entry price is the size weighted
// average of every fill and leverage is fixed when the position is created
type Position struct {
	Side       Side            `json:"side"`
	EntryPrice decimal.Decimal `json:"entry-price"`
	Size       decimal.Decimal `json:"size"`
	CreatedAt  time.Time       `json:"created-at"`
	Leverage   int64           `json:"leverage"`
	MarkField  kline.Field     `json:"mark-field"`

	// cost is the exact notional paid for Size. EntryPrice is derived from
	// it and may carry rounding, cost never does
	cost decimal.Decimal
}

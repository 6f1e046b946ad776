package base

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/position"
)

var (
	// ErrStrategyNotFound used when strategy specified in start config does not exist
	ErrStrategyNotFound = errors.New("not found. Please ensure the strategy-settings field 'name' is spelled properly in your config")
	// ErrInvalidCustomSettings used when bad custom settings are found in the start config
	ErrInvalidCustomSettings = errors.New("invalid custom settings in config")
)

// Trader is the view of a running simulation handed to a strategy on every
// candle. Order entry is synchronous and either fully applies or returns an
// error without changing state. A price of zero or less fills at the current
// candle close. A close quantity of zero, or one at least the position size,
// closes the whole position
type Trader interface {
	Latest() kline.Candle
	History() []kline.Candle
	Cash() decimal.Decimal
	Config() *config.Config
	Long() (position.Position, bool)
	Short() (position.Position, bool)
	HasLong() bool
	HasShort() bool
	OpenLong(quantity, price decimal.Decimal) error
	OpenShort(quantity, price decimal.Decimal) error
	CloseLong(quantity, price decimal.Decimal) error
	CloseShort(quantity, price decimal.Decimal) error
}

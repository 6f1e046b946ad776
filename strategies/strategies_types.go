package strategies

import (
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
)

// Handler defines all functions required to run strategies against data
// events
type Handler interface {
	Name() string
	Description() string
	OnData(kline.Candle, base.Trader) error
	SetCustomSettings(map[string]any) error
	SetDefaults()
}

// Func adapts a plain callback into a Handler without custom settings
type Func struct {
	name string
	fn   func(kline.Candle, base.Trader) error
}

package strategies

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
	"github.com/thrasher-corp/perpbacktester/strategies/buyandhold"
	"github.com/thrasher-corp/perpbacktester/strategies/rsi"
)

var errCustomSettingsUnsupported = errors.New("custom settings not supported")

// LoadStrategyByName returns a fresh strategy matching the name with its
// defaults applied
func LoadStrategyByName(name string) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if !strings.EqualFold(name, strats[i].Name()) {
			continue
		}
		strats[i].SetDefaults()
		return strats[i], nil
	}
	return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
}

// GetStrategies returns a new instance of every supported strategy
func GetStrategies() []Handler {
	return []Handler{
		new(buyandhold.Strategy),
		new(rsi.Strategy),
	}
}

// NewFunc wraps a callback so it can be run without registering a strategy
func NewFunc(name string, fn func(kline.Candle, base.Trader) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the name of the strategy
func (f *Func) Name() string {
	return f.name
}

// Description provides a nice overview of the strategy
func (f *Func) Description() string {
	return "callback strategy " + f.name
}

// OnData calls the wrapped callback
func (f *Func) OnData(c kline.Candle, t base.Trader) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(c, t)
}

// SetCustomSettings is unsupported for callbacks
func (f *Func) SetCustomSettings(s map[string]any) error {
	if len(s) > 0 {
		return fmt.Errorf("%v %w", f.name, errCustomSettingsUnsupported)
	}
	return nil
}

// SetDefaults is a no-op for callbacks
func (f *Func) SetDefaults() {}

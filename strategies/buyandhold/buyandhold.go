package buyandhold

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
)

const (
	// Name is the strategy name
	Name                = "buyandhold"
	maxBalanceRiskKey   = "max-balance-risk"
	minTradeNotionalKey = "min-trade-notional"
	openHourKey         = "open-hour"
	closeHourKey        = "close-hour"
	description         = `Opens a long with a fraction of available cash during the open hour of each day and closes the whole long during the close hour`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	maxBalanceRisk   decimal.Decimal
	minTradeNotional decimal.Decimal
	openHour         int
	closeHour        int
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnData opens a long at the close price on every candle in the open hour
// when the risked cash meets the minimum notional, and closes any long on
// every candle in the close hour
func (s *Strategy) OnData(c kline.Candle, t base.Trader) error {
	switch c.Time.Hour() {
	case s.openHour:
		notional := t.Cash().Mul(s.maxBalanceRisk)
		if notional.LessThan(s.minTradeNotional) {
			return nil
		}
		qty := notional.Div(c.Close.Decimal)
		return t.OpenLong(qty, c.Close.Decimal)
	case s.closeHour:
		if !t.HasLong() {
			return nil
		}
		return t.CloseLong(decimal.Zero, c.Close.Decimal)
	}
	return nil
}

// SetCustomSettings allows a user to modify the sizing and hours in their
// config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case maxBalanceRiskKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			if f > 1 {
				return fmt.Errorf("%w %v cannot exceed 1: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.maxBalanceRisk = decimal.NewFromFloat(f)
		case minTradeNotionalKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			s.minTradeNotional = decimal.NewFromFloat(f)
		case openHourKey:
			h, err := base.Hour(k, v)
			if err != nil {
				return err
			}
			s.openHour = h
		case closeHourKey:
			h, err := base.Hour(k, v)
			if err != nil {
				return err
			}
			s.closeHour = h
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.openHour == s.closeHour {
		return fmt.Errorf("%w open and close hour cannot both be %v", base.ErrInvalidCustomSettings, s.openHour)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.maxBalanceRisk = decimal.NewFromFloat(0.1)
	s.minTradeNotional = decimal.NewFromInt(10)
	s.openHour = 0
	s.closeHour = 23
}

package rsi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"
	"github.com/thrasher-corp/perpbacktester/broker"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
)

const (
	// Name is the strategy name
	Name            = "rsi"
	rsiPeriodKey    = "rsi-period"
	rsiLowKey       = "rsi-low"
	rsiHighKey      = "rsi-high"
	positionSizeKey = "position-size"
	// historyMultiplier bounds the closes kept for the indicator to a
	// multiple of the period
	historyMultiplier = 10
	description       = `The relative strength index is a technical indicator used in the analysis of financial markets. This version goes long when the RSI is at or below the low level and short when it is at or above the high level, closing the opposite side first`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	rsiPeriod    int
	rsiLow       decimal.Decimal
	rsiHigh      decimal.Decimal
	positionSize decimal.Decimal
	closes       []float64
	latestRSI    decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// OnData records the candle close and, once enough closes are held, flips
// the account towards the side the RSI indicates
func (s *Strategy) OnData(c kline.Candle, t base.Trader) error {
	s.appendClose(c.Close.Decimal.InexactFloat64())
	if len(s.closes) <= s.rsiPeriod {
		return nil
	}
	rsi := indicators.RSI(s.closes, s.rsiPeriod)
	if len(rsi) == 0 {
		return nil
	}
	s.latestRSI = decimal.NewFromFloat(rsi[len(rsi)-1])

	switch {
	case s.latestRSI.LessThanOrEqual(s.rsiLow):
		if t.HasShort() {
			if err := t.CloseShort(decimal.Zero, decimal.Zero); err != nil {
				return err
			}
		}
		if t.HasLong() {
			return nil
		}
		return s.open(c, t, t.OpenLong)
	case s.latestRSI.GreaterThanOrEqual(s.rsiHigh):
		if t.HasLong() {
			if err := t.CloseLong(decimal.Zero, decimal.Zero); err != nil {
				return err
			}
		}
		if t.HasShort() {
			return nil
		}
		return s.open(c, t, t.OpenShort)
	}
	return nil
}

// open risks the configured fraction of cash as margin at the current
// leverage. Running out of cash skips the signal rather than ending the run
func (s *Strategy) open(c kline.Candle, t base.Trader, fn func(qty, price decimal.Decimal) error) error {
	margin := t.Cash().Mul(s.positionSize)
	qty := margin.Mul(decimal.NewFromInt(t.Config().Leverage())).Div(c.Close.Decimal)
	if !qty.IsPositive() {
		return nil
	}
	err := fn(qty, decimal.Zero)
	if errors.Is(err, broker.ErrInsufficientFunds) {
		log.Debugf(log.Strategy, "%v skipping signal at %v RSI %v: %v", Name, c.Time, s.latestRSI, err)
		return nil
	}
	return err
}

func (s *Strategy) appendClose(f float64) {
	limit := s.rsiPeriod * historyMultiplier
	if len(s.closes) >= limit && limit > 0 {
		copy(s.closes, s.closes[len(s.closes)-limit+1:])
		s.closes = s.closes[:limit-1]
	}
	s.closes = append(s.closes, f)
}

// SetCustomSettings allows a user to modify the RSI limits in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	for k, v := range customSettings {
		switch k {
		case rsiHighKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			s.rsiHigh = decimal.NewFromFloat(f)
		case rsiLowKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			s.rsiLow = decimal.NewFromFloat(f)
		case rsiPeriodKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			if f != float64(int(f)) {
				return fmt.Errorf("%w provided %v must be a whole number: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.rsiPeriod = int(f)
		case positionSizeKey:
			f, err := base.PositiveFloat(k, v)
			if err != nil {
				return err
			}
			if f > 1 {
				return fmt.Errorf("%w %v cannot exceed 1: %v", base.ErrInvalidCustomSettings, k, v)
			}
			s.positionSize = decimal.NewFromFloat(f)
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if s.rsiLow.GreaterThanOrEqual(s.rsiHigh) {
		return fmt.Errorf("%w rsi-low %v must be below rsi-high %v", base.ErrInvalidCustomSettings, s.rsiLow, s.rsiHigh)
	}
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiPeriod = 14
	s.positionSize = decimal.NewFromFloat(0.25)
	s.closes = nil
	s.latestRSI = decimal.Zero
}

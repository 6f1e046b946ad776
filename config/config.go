package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/common/file"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/log"
)

var oneHundred = decimal.NewFromInt(100)

// NewConfig returns a Config populated with default values
func NewConfig() *Config {
	c := &Config{
		feeRate:        DefaultFeeRate,
		fundingRate:    DefaultFundingRate,
		leverage:       DefaultLeverage,
		basePrecision:  DefaultBasePrecision,
		quotePrecision: DefaultQuotePrecision,
		pricePrecision: DefaultPricePrecision,
		markPriceField: kline.Close,
	}
	for _, h := range DefaultFundingRateHours {
		c.fundingRateHours[h] = true
	}
	return c
}

// Copy returns an independent copy of the config
func (c *Config) Copy() *Config {
	cpy := *c
	return &cpy
}

// FeeRate returns the commission rate as a fraction of notional
func (c *Config) FeeRate() decimal.Decimal {
	return c.feeRate
}

// SetFeeRate sets the commission rate as a fraction of notional
func (c *Config) SetFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("fee %w: %v", errNegativeRate, rate)
	}
	c.feeRate = rate
	return nil
}

// SetFeeRatePercent sets the commission rate from a percentage
func (c *Config) SetFeeRatePercent(percent decimal.Decimal) error {
	return c.SetFeeRate(percent.Div(oneHundred))
}

// FundingRate returns the funding rate as a fraction of notional
func (c *Config) FundingRate() decimal.Decimal {
	return c.fundingRate
}

// SetFundingRate sets the funding rate as a fraction of notional
func (c *Config) SetFundingRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("funding %w: %v", errNegativeRate, rate)
	}
	c.fundingRate = rate
	return nil
}

// SetFundingRatePercent sets the funding rate from a percentage
func (c *Config) SetFundingRatePercent(percent decimal.Decimal) error {
	return c.SetFundingRate(percent.Div(oneHundred))
}

// FundingRateHours returns the sorted hours of the day on which funding is
// charged
func (c *Config) FundingRateHours() []int {
	hours := make([]int, 0, 3)
	for h := range c.fundingRateHours {
		if c.fundingRateHours[h] {
			hours = append(hours, h)
		}
	}
	return hours
}

// IsFundingHour reports whether funding is charged at the given hour
func (c *Config) IsFundingHour(hour int) bool {
	return hour >= 0 && hour < len(c.fundingRateHours) && c.fundingRateHours[hour]
}

// SetFundingRateHours replaces the funding hours. No hours disables funding
func (c *Config) SetFundingRateHours(hours ...int) error {
	var set [24]bool
	for _, h := range hours {
		if h < 0 || h >= len(set) {
			return fmt.Errorf("%w: %d", errInvalidFundingHour, h)
		}
		set[h] = true
	}
	c.fundingRateHours = set
	return nil
}

// Leverage returns the leverage applied to newly opened positions
func (c *Config) Leverage() int64 {
	return c.leverage
}

// SetLeverage sets the leverage applied to newly opened positions. Open
// positions keep the leverage they were opened with
func (c *Config) SetLeverage(leverage int64) error {
	if leverage < 1 {
		return fmt.Errorf("%w: %d", errInvalidLeverage, leverage)
	}
	c.leverage = leverage
	return nil
}

// BasePrecision returns the decimal places used to present quantities
func (c *Config) BasePrecision() int32 {
	return c.basePrecision
}

// SetBasePrecision sets the decimal places used to present quantities
func (c *Config) SetBasePrecision(p int32) error {
	if p < 0 {
		return fmt.Errorf("base %w: %d", errNegativePrecision, p)
	}
	c.basePrecision = p
	return nil
}

// QuotePrecision returns the decimal places used to present cash amounts
func (c *Config) QuotePrecision() int32 {
	return c.quotePrecision
}

// SetQuotePrecision sets the decimal places used to present cash amounts
func (c *Config) SetQuotePrecision(p int32) error {
	if p < 0 {
		return fmt.Errorf("quote %w: %d", errNegativePrecision, p)
	}
	c.quotePrecision = p
	return nil
}

// PricePrecision returns the decimal places used to present prices
func (c *Config) PricePrecision() int32 {
	return c.pricePrecision
}

// SetPricePrecision sets the decimal places used to present prices
func (c *Config) SetPricePrecision(p int32) error {
	if p < 0 {
		return fmt.Errorf("price %w: %d", errNegativePrecision, p)
	}
	c.pricePrecision = p
	return nil
}

// MarkPriceField returns the candle field used to value new positions
func (c *Config) MarkPriceField() kline.Field {
	return c.markPriceField
}

// SetMarkPriceField sets the candle field used to value new positions
func (c *Config) SetMarkPriceField(f kline.Field) error {
	if f == kline.UnsetField || f > kline.Close {
		return fmt.Errorf("%w: %v", kline.ErrUnsupportedField, f)
	}
	c.markPriceField = f
	return nil
}

// ReadConfigFromFile will take a config from a path
func ReadConfigFromFile(path string) (*RunConfig, error) {
	if !file.Exists(path) {
		return nil, fmt.Errorf("%w: %v", errFileNotFound, path)
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(data []byte) (resp *RunConfig, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// Validate checks all config settings
func (r *RunConfig) Validate() error {
	if r.StrategySettings.Name == "" {
		return errStrategyNameUnset
	}
	if !r.InitialFunds.IsPositive() {
		return fmt.Errorf("%w: %v", errInitialFundsUnset, r.InitialFunds)
	}
	if err := r.DataSettings.validate(); err != nil {
		return err
	}
	_, err := r.SimulationConfig()
	return err
}

func (d *DataSettings) validate() error {
	switch {
	case d.CSVData == nil && d.DatabaseData == nil:
		return errNoDataSource
	case d.CSVData != nil && d.DatabaseData != nil:
		return errMultipleDataSources
	case d.CSVData != nil:
		if d.CSVData.FullPath == "" {
			return errCSVPathUnset
		}
	default:
		db := d.DatabaseData
		if db.Path == "" || db.Symbol == "" || db.StartDate.IsZero() || db.EndDate.IsZero() || db.EndDate.Before(db.StartDate) {
			return errDatabaseSettingsUnset
		}
	}
	return nil
}

// SimulationConfig converts the percentage based file settings into a
// simulation Config, applying defaults for anything unset
func (r *RunConfig) SimulationConfig() (*Config, error) {
	c := NewConfig()
	s := &r.SimulationSettings
	if s.FeeRatePercent != nil {
		if err := c.SetFeeRatePercent(*s.FeeRatePercent); err != nil {
			return nil, err
		}
	}
	if s.FundingRatePercent != nil {
		if err := c.SetFundingRatePercent(*s.FundingRatePercent); err != nil {
			return nil, err
		}
	}
	if s.FundingRateHours != nil {
		if err := c.SetFundingRateHours(s.FundingRateHours...); err != nil {
			return nil, err
		}
	}
	if s.Leverage != 0 {
		if err := c.SetLeverage(s.Leverage); err != nil {
			return nil, err
		}
	}
	for _, p := range []struct {
		v   *int32
		set func(int32) error
	}{
		{s.BasePrecision, c.SetBasePrecision},
		{s.QuotePrecision, c.SetQuotePrecision},
		{s.PricePrecision, c.SetPricePrecision},
	} {
		if p.v == nil {
			continue
		}
		if err := p.set(*p.v); err != nil {
			return nil, err
		}
	}
	if s.MarkPriceField != kline.UnsetField {
		if err := c.SetMarkPriceField(s.MarkPriceField); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// PrintSetting prints relevant settings to the console for easy reading
func (r *RunConfig) PrintSetting() {
	log.Info(log.Setup, "-------------------------------------------------------------")
	log.Info(log.Setup, "------------------Backtester Settings------------------------")
	log.Info(log.Setup, "-------------------------------------------------------------")
	log.Infof(log.Setup, "Nickname: %s", r.Nickname)
	if r.Goal != "" {
		log.Infof(log.Setup, "Goal: %s", r.Goal)
	}
	log.Infof(log.Setup, "Strategy: %s", r.StrategySettings.Name)
	keys := make([]string, 0, len(r.StrategySettings.CustomSettings))
	for k := range r.StrategySettings.CustomSettings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		log.Infof(log.Setup, "%s: %v", k, r.StrategySettings.CustomSettings[k])
	}
	log.Infof(log.Setup, "Initial funds: %v", r.InitialFunds)
	c, err := r.SimulationConfig()
	if err != nil {
		log.Errorln(log.Setup, err)
		return
	}
	log.Infof(log.Setup, "Fee rate: %v", c.FeeRate())
	log.Infof(log.Setup, "Funding rate: %v at hours %v", c.FundingRate(), c.FundingRateHours())
	log.Infof(log.Setup, "Leverage: %d", c.Leverage())
	log.Infof(log.Setup, "Mark price field: %v", c.MarkPriceField())
}

package buyandhold

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/position"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
)

type order struct {
	kind       string
	qty, price decimal.Decimal
}

type fakeTrader struct {
	cash    decimal.Decimal
	hasLong bool
	orders  []order
}

func (f *fakeTrader) Latest() kline.Candle                  { return kline.Candle{} }
func (f *fakeTrader) History() []kline.Candle               { return nil }
func (f *fakeTrader) Cash() decimal.Decimal                 { return f.cash }
func (f *fakeTrader) Config() *config.Config                { return config.NewConfig() }
func (f *fakeTrader) Long() (position.Position, bool)       { return position.Position{}, f.hasLong }
func (f *fakeTrader) Short() (position.Position, bool)      { return position.Position{}, false }
func (f *fakeTrader) HasLong() bool                         { return f.hasLong }
func (f *fakeTrader) HasShort() bool                        { return false }
func (f *fakeTrader) OpenShort(_, _ decimal.Decimal) error  { return nil }
func (f *fakeTrader) CloseShort(_, _ decimal.Decimal) error { return nil }

func (f *fakeTrader) OpenLong(qty, price decimal.Decimal) error {
	f.orders = append(f.orders, order{"open", qty, price})
	f.hasLong = true
	return nil
}

func (f *fakeTrader) CloseLong(qty, price decimal.Decimal) error {
	f.orders = append(f.orders, order{"close", qty, price})
	f.hasLong = false
	return nil
}

var _ base.Trader = (*fakeTrader)(nil)

func candleAt(hour int, price float64) kline.Candle {
	return kline.Candle{
		Time:  time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC),
		Open:  kline.NewPrice(price),
		High:  kline.NewPrice(price),
		Low:   kline.NewPrice(price),
		Close: kline.NewPrice(price),
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	assert.Equal(t, Name, s.Name())
	assert.NotEmpty(t, s.Description())
}

func TestOnData(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	s.SetDefaults()
	tr := &fakeTrader{cash: decimal.NewFromInt(10000)}

	require.NoError(t, s.OnData(candleAt(0, 100), tr))
	require.Len(t, tr.orders, 1)
	assert.Equal(t, "open", tr.orders[0].kind)
	assert.True(t, tr.orders[0].qty.Equal(decimal.NewFromInt(10)), tr.orders[0].qty.String())
	assert.True(t, tr.orders[0].price.Equal(decimal.NewFromInt(100)))

	require.NoError(t, s.OnData(candleAt(12, 100), tr))
	assert.Len(t, tr.orders, 1)

	require.NoError(t, s.OnData(candleAt(23, 105), tr))
	require.Len(t, tr.orders, 2)
	assert.Equal(t, "close", tr.orders[1].kind)
	assert.True(t, tr.orders[1].qty.IsZero())

	// nothing left to close
	require.NoError(t, s.OnData(candleAt(23, 105), tr))
	assert.Len(t, tr.orders, 2)

	// risked cash below the minimum notional
	tr.cash = decimal.NewFromInt(99)
	require.NoError(t, s.OnData(candleAt(0, 100), tr))
	assert.Len(t, tr.orders, 2)
}

func TestSetCustomSettings(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	s.SetDefaults()
	require.NoError(t, s.SetCustomSettings(map[string]any{
		maxBalanceRiskKey:   0.5,
		minTradeNotionalKey: 1.0,
		openHourKey:         8.0,
		closeHourKey:        20.0,
	}))
	assert.True(t, s.maxBalanceRisk.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, s.minTradeNotional.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 8, s.openHour)
	assert.Equal(t, 20, s.closeHour)

	for _, bad := range []map[string]any{
		{maxBalanceRiskKey: 1.5},
		{maxBalanceRiskKey: "lots"},
		{minTradeNotionalKey: -1.0},
		{openHourKey: 25.0},
		{closeHourKey: "noon"},
		{"unknown": 1.0},
		{openHourKey: 20.0},
	} {
		assert.ErrorIs(t, s.SetCustomSettings(bad), base.ErrInvalidCustomSettings, bad)
	}
}

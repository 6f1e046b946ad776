package report

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/perpbacktester/broker"
	"github.com/thrasher-corp/perpbacktester/common"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/position"
)

var tt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return tt.AddDate(0, 0, n) }

func pnl(at time.Time, amount int64) ledger.Transaction {
	return ledger.Transaction{Time: at, Type: ledger.RealisedPNL, Amount: decimal.NewFromInt(amount)}
}

func build(t *testing.T, start int64, meta Meta, trades []ledger.Trade, txs ...ledger.Transaction) *Report {
	t.Helper()
	l := &ledger.Ledger{}
	for i := range trades {
		require.NoError(t, l.AddTrade(trades[i]))
	}
	if len(txs) > 0 {
		require.NoError(t, l.AddTransactions(txs...))
	}
	b, err := broker.New(decimal.NewFromInt(start))
	require.NoError(t, err)
	r, err := New(meta, l, b, config.NewConfig())
	require.NoError(t, err)
	return r
}

func TestNewNilArguments(t *testing.T) {
	t.Parallel()
	b, err := broker.New(decimal.NewFromInt(1))
	require.NoError(t, err)
	_, err = New(Meta{}, nil, b, config.NewConfig())
	assert.ErrorIs(t, err, common.ErrNilPointer)
	_, err = New(Meta{}, &ledger.Ledger{}, nil, config.NewConfig())
	assert.ErrorIs(t, err, common.ErrNilPointer)
	_, err = New(Meta{}, &ledger.Ledger{}, b, nil)
	assert.ErrorIs(t, err, common.ErrNilPointer)
}

func TestOpenPositions(t *testing.T) {
	t.Parallel()
	l := &ledger.Ledger{}
	require.NoError(t, l.AddTransactions(ledger.Transaction{Time: tt, Type: ledger.Commission, Amount: decimal.NewFromFloat(-0.2)}))
	b, err := broker.New(decimal.NewFromInt(1000))
	require.NoError(t, err)
	long, err := position.New(position.Long, decimal.NewFromInt(100), decimal.NewFromInt(1), tt, 2, kline.Close)
	require.NoError(t, err)
	short, err := position.New(position.Short, decimal.NewFromInt(100), decimal.NewFromInt(1), tt, 4, kline.Close)
	require.NoError(t, err)

	r, err := New(Meta{StartDate: tt}, l, b, config.NewConfig(), *long, *short)
	require.NoError(t, err)
	require.Len(t, r.OpenPositions, 2)
	assert.Equal(t, position.Long, r.OpenPositions[0].Side)
	assert.Equal(t, "50", r.OpenPositions[0].LiquidationPrice.String())
	assert.Equal(t, "100.2", r.OpenPositions[0].BreakevenPrice.String())
	assert.Equal(t, "125", r.OpenPositions[1].LiquidationPrice.String())
	assert.Equal(t, "99.8", r.OpenPositions[1].BreakevenPrice.String())
	r.PrintResults()
}

func TestEmptyReport(t *testing.T) {
	t.Parallel()
	r := build(t, 100, Meta{StartDate: tt}, nil)
	_, err := r.Statistics()
	assert.ErrorIs(t, err, ErrEmptyReport)
	assert.Empty(t, r.DailyEquity)
	assert.Empty(t, r.Drawdowns)
	r.PrintResults()

	var nilReport *Report
	_, err = nilReport.Statistics()
	assert.ErrorIs(t, err, common.ErrNilPointer)
}

func TestDailyReturn(t *testing.T) {
	t.Parallel()
	r := build(t, 10000, Meta{StartDate: tt}, nil, pnl(tt.Add(time.Hour), 1000))
	require.Len(t, r.DailyEquity, 1, "seed row must be dropped")
	assert.Equal(t, tt, r.DailyEquity[0].Time)
	assert.True(t, r.DailyEquity[0].Equity.Equal(decimal.NewFromInt(11000)))
	assert.True(t, r.DailyEquity[0].Return.Equal(decimal.NewFromFloat(0.1)))
	assert.Empty(t, r.Drawdowns)

	s, err := r.Statistics()
	require.NoError(t, err)
	assert.True(t, s.MaxDrawdown.IsZero())
	assert.True(t, s.MaxDrawdownPercent.IsZero())
	assert.True(t, s.CumulativeReturnPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, s.EndingEquity.Equal(decimal.NewFromInt(11000)))
	assert.True(t, s.SharpeRatio.IsZero(), "a single observation has no deviation")
	assert.True(t, s.WinPercent.Equal(decimal.NewFromInt(100)))
	r.PrintResults()
}

func TestDrawdowns(t *testing.T) {
	t.Parallel()
	r := build(t, 100, Meta{StartDate: tt}, nil,
		pnl(day(0), 10),
		pnl(day(1), -20),
		pnl(day(2), 5),
		pnl(day(3), 20),
		pnl(day(5), -5),
	)
	require.Len(t, r.DailyEquity, 6)
	assert.True(t, r.DailyEquity[4].Equity.Equal(decimal.NewFromInt(115)), "empty days carry the previous level")
	assert.True(t, r.DailyEquity[4].Return.IsZero())

	require.Len(t, r.Drawdowns, 2)
	first := r.Drawdowns[0]
	assert.Equal(t, day(0), first.From)
	assert.Equal(t, day(2), first.To)
	assert.Equal(t, 48*time.Hour, first.Duration)
	assert.True(t, first.Highest.Value.Equal(decimal.NewFromInt(110)))
	assert.True(t, first.Lowest.Value.Equal(decimal.NewFromInt(90)))
	assert.Equal(t, day(1), first.Lowest.Time)
	assert.True(t, first.Recovered)
	assert.True(t, first.DrawdownPercent.Equal(decimal.NewFromInt(-20).Div(decimal.NewFromInt(110)).Mul(oneHundred)))

	second := r.Drawdowns[1]
	assert.Equal(t, day(4), second.From, "equalling a peak moves it forward")
	assert.Equal(t, day(5), second.To)
	assert.False(t, second.Recovered)

	s, err := r.Statistics()
	require.NoError(t, err)
	assert.True(t, s.MaxDrawdown.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, first.DrawdownPercent, s.MaxDrawdownPercent)
	assert.Equal(t, day(1), s.MaxDrawdownTime)
	assert.True(t, s.HighestEquity.Value.Equal(decimal.NewFromInt(115)))
	assert.Equal(t, day(3), s.HighestEquity.Time)
	assert.True(t, s.LowestEquity.Value.Equal(decimal.NewFromInt(90)))
	assert.False(t, s.SharpeRatio.IsZero())
}

func TestPeriodReturns(t *testing.T) {
	t.Parallel()
	start := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	r := build(t, 1000, Meta{StartDate: start}, nil,
		pnl(time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), 100),
		pnl(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), -110),
	)
	require.Len(t, r.MonthlyReturns, 3)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), r.MonthlyReturns[0].Time)
	assert.True(t, r.MonthlyReturns[0].ReturnPercent.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.MonthlyReturns[1].Time)
	assert.True(t, r.MonthlyReturns[1].ReturnPercent.IsZero())
	assert.True(t, r.MonthlyReturns[1].Equity.Equal(decimal.NewFromInt(1100)))
	assert.True(t, r.MonthlyReturns[2].ReturnPercent.Equal(decimal.NewFromInt(-10)))

	require.Len(t, r.AnnualReturns, 2)
	assert.Equal(t, 2023, r.AnnualReturns[0].Time.Year())
	assert.True(t, r.AnnualReturns[0].ReturnPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, r.AnnualReturns[1].ReturnPercent.Equal(decimal.NewFromInt(-10)))
	assert.True(t, r.AnnualReturns[1].Equity.Equal(decimal.NewFromInt(990)))
}

func TestTradeStatistics(t *testing.T) {
	t.Parallel()
	closed := func(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.NewFromInt(v)) }
	trades := []ledger.Trade{
		{Time: tt, Side: ledger.Buy, Notional: decimal.NewFromInt(100)},
		{Time: tt.Add(time.Hour), Side: ledger.Sell, Notional: decimal.NewFromInt(100)},
		{Time: tt.Add(3 * time.Hour), Side: ledger.Sell, Notional: decimal.NewFromInt(105), RealisedPNL: closed(5)},
		{Time: tt.Add(5 * time.Hour), Side: ledger.Buy, Notional: decimal.NewFromInt(102), RealisedPNL: closed(-2)},
		{Time: day(1), Side: ledger.Buy, Notional: decimal.NewFromInt(100)},
	}
	r := build(t, 1000, Meta{StartDate: tt}, trades,
		ledger.Transaction{Time: tt, Type: ledger.Commission, Amount: decimal.NewFromInt(-1)},
		ledger.Transaction{Time: tt.Add(2 * time.Hour), Type: ledger.FundingFee, Amount: decimal.NewFromInt(-3)},
		pnl(tt.Add(3*time.Hour), 5),
		pnl(tt.Add(5*time.Hour), -2),
	)
	s, err := r.Statistics()
	require.NoError(t, err)

	assert.True(t, s.WinPercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.LossPercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.LongPercent.Equal(ratio(2, 3)))
	assert.True(t, s.ShortPercent.Equal(ratio(1, 3)))
	assert.Equal(t, int64(3), s.TotalOpens)
	assert.Equal(t, int64(2), s.TotalCloses)
	assert.True(t, s.Turnover.Equal(decimal.NewFromInt(507)))
	assert.True(t, s.TotalCommission.Equal(decimal.NewFromInt(-1)))
	assert.True(t, s.TotalFunding.Equal(decimal.NewFromInt(-3)))
	assert.True(t, s.TotalFees.Equal(decimal.NewFromInt(-4)))
	assert.True(t, s.TotalRealisedPNL.Equal(decimal.NewFromInt(3)))
	assert.True(t, s.CumulativeReturn.Equal(decimal.NewFromInt(-1)))

	assert.Equal(t, TradeTiming{Count: 2, Average: 12 * time.Hour, Min: time.Hour, Max: 23 * time.Hour}, s.Intervals)
	assert.Equal(t, TradeTiming{Count: 2, Average: 2 * time.Hour, Min: 2 * time.Hour, Max: 2 * time.Hour}, s.Durations)

	assert.True(t, s.Cadence.Daily.Equal(decimal.NewFromFloat(1.5)))
	assert.True(t, s.Cadence.Weekly.Equal(decimal.NewFromFloat(2.5)))
}

func TestRounding(t *testing.T) {
	t.Parallel()
	trades := []ledger.Trade{{
		Time:     tt,
		Side:     ledger.Buy,
		Quantity: decimal.RequireFromString("1.123456789"),
		Price:    decimal.RequireFromString("100.456"),
		Notional: decimal.RequireFromString("112.8585"),
		Fee:      decimal.RequireFromString("0.1128"),
	}}
	r := build(t, 1000, Meta{StartDate: tt}, trades,
		ledger.Transaction{Time: tt, Type: ledger.Commission, Amount: decimal.RequireFromString("-0.1128")},
	)
	assert.Equal(t, "1.12345679", r.Trades[0].Quantity.String())
	assert.Equal(t, "100.46", r.Trades[0].Price.String())
	assert.Equal(t, "112.86", r.Trades[0].Notional.String())
	assert.Equal(t, "0.11", r.Trades[0].Fee.String())
	assert.False(t, r.Trades[0].RealisedPNL.Valid)
	assert.Equal(t, "-0.11", r.Transactions[0].Amount.String())
	assert.True(t, r.DailyEquity[0].Equity.Equal(decimal.RequireFromString("999.89")))
}

func TestSerialise(t *testing.T) {
	t.Parallel()
	id, err := uuid.NewV4()
	require.NoError(t, err)
	r := build(t, 100, Meta{ID: id, Strategy: "test", StartDate: tt}, nil, pnl(tt, 1))
	out, err := r.Serialise()
	require.NoError(t, err)
	assert.Contains(t, out, `"strategy": "test"`)
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, `"daily-equity"`)
}

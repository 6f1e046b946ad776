package report

import (
	"time"

	"github.com/shopspring/decimal"
	pmath "github.com/thrasher-corp/perpbacktester/common/math"
	"github.com/thrasher-corp/perpbacktester/ledger"
)

func ratio(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total))).Mul(oneHundred)
}

// winLoss returns the share of realised PNL transactions which made and lost
// money. Break even closes count towards the total only
func winLoss(txs []ledger.Transaction) (win, loss decimal.Decimal) {
	var wins, losses, total int
	for i := range txs {
		if txs[i].Type != ledger.RealisedPNL {
			continue
		}
		total++
		switch {
		case txs[i].Amount.IsPositive():
			wins++
		case txs[i].Amount.IsNegative():
			losses++
		}
	}
	return ratio(wins, total), ratio(losses, total)
}

// longShort returns the share of opening trades which were buys and sells
func longShort(trades []ledger.Trade) (long, short decimal.Decimal) {
	var longs, shorts, total int
	for i := range trades {
		if !trades[i].IsOpen() {
			continue
		}
		total++
		switch trades[i].Side {
		case ledger.Buy:
			longs++
		case ledger.Sell:
			shorts++
		}
	}
	return ratio(longs, total), ratio(shorts, total)
}

// cadence counts opening trades for every day between the first and last
// trade and averages the daily counts along with their trailing 7, 30 and
// 365 day sums
func cadence(trades []ledger.Trade) TradeCadence {
	if len(trades) == 0 {
		return TradeCadence{}
	}
	loc := trades[0].Time.Location()
	first := daily.truncate(trades[0].Time)
	last := first
	opens := make(map[time.Time]float64)
	for i := range trades {
		day := daily.truncate(trades[i].Time.In(loc))
		if day.After(last) {
			last = day
		}
		if trades[i].IsOpen() {
			opens[day]++
		}
	}
	var counts []float64
	for t := first; !t.After(last); t = daily.step(t, 1) {
		counts = append(counts, opens[t])
	}
	avg := func(window int) decimal.Decimal {
		return decimal.NewFromFloat(pmath.ArithmeticAverage(pmath.RollingSum(counts, window)))
	}
	return TradeCadence{
		Daily:   avg(1),
		Weekly:  avg(7),
		Monthly: avg(30),
		Annual:  avg(365),
	}
}

// intervals returns the gaps between consecutive opening trades
func intervals(trades []ledger.Trade) []time.Duration {
	var (
		resp []time.Duration
		prev time.Time
	)
	for i := range trades {
		if !trades[i].IsOpen() {
			continue
		}
		if !prev.IsZero() {
			resp = append(resp, trades[i].Time.Sub(prev))
		}
		prev = trades[i].Time
	}
	return resp
}

// durations returns, for every closing trade, the gap since the trade row
// immediately before it. Rows are not paired by position so interleaved
// long and short activity shortens the reported durations
func durations(trades []ledger.Trade) []time.Duration {
	var resp []time.Duration
	for i := 1; i < len(trades); i++ {
		if trades[i].IsClose() {
			resp = append(resp, trades[i].Time.Sub(trades[i-1].Time))
		}
	}
	return resp
}

func timing(gaps []time.Duration) TradeTiming {
	if len(gaps) == 0 {
		return TradeTiming{}
	}
	resp := TradeTiming{
		Count: len(gaps),
		Min:   gaps[0],
		Max:   gaps[0],
	}
	var total time.Duration
	for i := range gaps {
		total += gaps[i]
		resp.Min = min(resp.Min, gaps[i])
		resp.Max = max(resp.Max, gaps[i])
	}
	resp.Average = total / time.Duration(len(gaps))
	return resp
}

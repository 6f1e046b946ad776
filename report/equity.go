package report

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	pmath "github.com/thrasher-corp/perpbacktester/common/math"
	"github.com/thrasher-corp/perpbacktester/ledger"
)

// bucketer truncates a time to the start of its bucket and steps between
// adjacent buckets
type bucketer struct {
	truncate func(time.Time) time.Time
	step     func(time.Time, int) time.Time
}

var (
	daily = bucketer{
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		},
		step: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
	}
	monthly = bucketer{
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		},
		step: func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
	}
	annually = bucketer{
		truncate: func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		},
		step: func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
	}
)

// bucketLevels seeds the starting cash one bucket before the first bucket,
// adds every transaction amount to its bucket and returns the running
// cumulative equity of every bucket from the seed to the last transaction.
// Buckets without transactions carry the previous level forward
func bucketLevels(first time.Time, startCash decimal.Decimal, txs []ledger.Transaction, b bucketer) []ValueAtTime {
	if len(txs) == 0 {
		return nil
	}
	if first.IsZero() || txs[0].Time.Before(first) {
		first = txs[0].Time
	}
	seed := b.step(b.truncate(first), -1)
	sums := make(map[time.Time]decimal.Decimal)
	last := seed
	for i := range txs {
		bucket := b.truncate(txs[i].Time.In(first.Location()))
		sums[bucket] = sums[bucket].Add(txs[i].Amount)
		if bucket.After(last) {
			last = bucket
		}
	}

	resp := []ValueAtTime{{Time: seed, Value: startCash}}
	level := startCash
	for t := b.step(seed, 1); !t.After(last); t = b.step(t, 1) {
		level = level.Add(sums[t])
		resp = append(resp, ValueAtTime{Time: t, Value: level})
	}
	return resp
}

// periodReturns converts seeded levels into per-bucket percentage returns,
// dropping the seed
func periodReturns(levels []ValueAtTime) []PeriodReturn {
	if len(levels) < 2 {
		return nil
	}
	resp := make([]PeriodReturn, 0, len(levels)-1)
	for i := 1; i < len(levels); i++ {
		resp = append(resp, PeriodReturn{
			Time:          levels[i].Time,
			Equity:        levels[i].Value,
			ReturnPercent: pmath.DecimalPercentageGainOrLoss(levels[i].Value, levels[i-1].Value),
		})
	}
	return resp
}

// dailyEquity converts seeded daily levels into the daily equity curve with
// fractional returns, dropping the seed
func dailyEquity(levels []ValueAtTime) []EquityPoint {
	if len(levels) < 2 {
		return nil
	}
	resp := make([]EquityPoint, 0, len(levels)-1)
	for i := 1; i < len(levels); i++ {
		resp = append(resp, EquityPoint{
			Time:   levels[i].Time,
			Equity: levels[i].Value,
			Return: pmath.DecimalPercentageChange(levels[i].Value, levels[i-1].Value),
		})
	}
	return resp
}

// drawdowns walks the running peak of the levels and records every span
// where the level stays below it. Equalling a peak ends the span and resets
// the peak. A span still open at the end of the series is unrecovered
func drawdowns(levels []ValueAtTime) []Drawdown {
	if len(levels) == 0 {
		return nil
	}
	var (
		resp    []Drawdown
		current *Drawdown
	)
	finish := func(recovered bool) {
		if current == nil {
			return
		}
		current.Recovered = recovered
		current.Duration = current.To.Sub(current.From)
		current.DrawdownPercent = pmath.DecimalPercentageGainOrLoss(current.Lowest.Value, current.Highest.Value)
		if current.Duration > 0 {
			resp = append(resp, *current)
		}
		current = nil
	}

	peak := levels[0]
	for i := 1; i < len(levels); i++ {
		if levels[i].Value.GreaterThanOrEqual(peak.Value) {
			finish(true)
			peak = levels[i]
			continue
		}
		if current == nil {
			current = &Drawdown{
				Highest: peak,
				Lowest:  levels[i],
				From:    peak.Time,
			}
		}
		if levels[i].Value.LessThan(current.Lowest.Value) {
			current.Lowest = levels[i]
		}
		current.To = levels[i].Time
	}
	finish(false)
	return resp
}

// maxDrawdown returns the episode holding the lowest equity point across all
// episodes, the first one wins a tie
func maxDrawdown(episodes []Drawdown) (Drawdown, bool) {
	if len(episodes) == 0 {
		return Drawdown{}, false
	}
	worst := episodes[0]
	for i := 1; i < len(episodes); i++ {
		if episodes[i].Lowest.Value.LessThan(worst.Lowest.Value) {
			worst = episodes[i]
		}
	}
	return worst, true
}

// averageReturnPercent is the mean percentage change between each level and
// the level the given number of buckets before it
func averageReturnPercent(levels []ValueAtTime, periods int) decimal.Decimal {
	if periods <= 0 || len(levels) <= periods {
		return decimal.Zero
	}
	changes := make([]decimal.Decimal, 0, len(levels)-periods)
	for i := periods; i < len(levels); i++ {
		changes = append(changes, pmath.DecimalPercentageChange(levels[i].Value, levels[i-periods].Value))
	}
	return pmath.DecimalArithmeticAverage(changes).Mul(oneHundred)
}

// extremes returns the highest and lowest levels, earliest first on ties
func extremes(levels []ValueAtTime) (highest, lowest ValueAtTime) {
	if len(levels) == 0 {
		return
	}
	highest, lowest = levels[0], levels[0]
	for i := 1; i < len(levels); i++ {
		if levels[i].Value.GreaterThan(highest.Value) {
			highest = levels[i]
		}
		if levels[i].Value.LessThan(lowest.Value) {
			lowest = levels[i]
		}
	}
	return highest, lowest
}

func sortTransactions(txs []ledger.Transaction) {
	slices.SortStableFunc(txs, func(a, b ledger.Transaction) int {
		return a.Time.Compare(b.Time)
	})
}

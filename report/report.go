package report

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/broker"
	"github.com/thrasher-corp/perpbacktester/common"
	pmath "github.com/thrasher-corp/perpbacktester/common/math"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/position"
)

var oneHundred = decimal.NewFromInt(100)

// New builds the report of a completed run. Every statistic is derived from
// the transactions rounded to the quote precision
func New(meta Meta, l *ledger.Ledger, b *broker.Broker, cfg *config.Config, open ...position.Position) (*Report, error) {
	if l == nil {
		return nil, fmt.Errorf("ledger %w", common.ErrNilPointer)
	}
	if b == nil {
		return nil, fmt.Errorf("broker %w", common.ErrNilPointer)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config %w", common.ErrNilPointer)
	}
	base, quote, price := cfg.BasePrecision(), cfg.QuotePrecision(), cfg.PricePrecision()
	r := &Report{
		Meta: meta,
		Settings: Settings{
			FeeRate:          cfg.FeeRate(),
			FundingRate:      cfg.FundingRate(),
			FundingRateHours: cfg.FundingRateHours(),
			Leverage:         cfg.Leverage(),
			BasePrecision:    base,
			QuotePrecision:   quote,
			PricePrecision:   price,
		},
		StartingCash:  b.StartCash().Round(quote),
		FinalCash:     b.Cash().Round(quote),
		Trades:        l.Trades(),
		Transactions:  l.Transactions(),
		Snapshots:     l.Snapshots(),
	}
	for i := range open {
		r.OpenPositions = append(r.OpenPositions, OpenPosition{
			Position:         open[i],
			LiquidationPrice: open[i].LiquidationPrice().Round(price),
			BreakevenPrice:   open[i].BreakevenPrice(cfg.FeeRate()).Round(price),
		})
	}
	for i := range r.Trades {
		t := &r.Trades[i]
		t.Quantity = t.Quantity.Round(base)
		t.Price = t.Price.Round(price)
		t.Notional = t.Notional.Round(quote)
		t.Fee = t.Fee.Round(quote)
		if t.RealisedPNL.Valid {
			t.RealisedPNL.Decimal = t.RealisedPNL.Decimal.Round(quote)
		}
	}
	for i := range r.Transactions {
		r.Transactions[i].Amount = r.Transactions[i].Amount.Round(quote)
	}
	for i := range r.Snapshots {
		r.Snapshots[i].Equity = r.Snapshots[i].Equity.Round(quote)
	}
	if len(r.Transactions) == 0 {
		return r, nil
	}

	txs := slices.Clone(r.Transactions)
	sortTransactions(txs)
	days := bucketLevels(meta.StartDate, r.StartingCash, txs, daily)
	r.DailyEquity = dailyEquity(days)
	r.MonthlyReturns = periodReturns(bucketLevels(meta.StartDate, r.StartingCash, txs, monthly))
	r.AnnualReturns = periodReturns(bucketLevels(meta.StartDate, r.StartingCash, txs, annually))
	r.Drawdowns = drawdowns(days)
	r.Stats = r.calculateStatistics(days)
	return r, nil
}

func (r *Report) calculateStatistics(days []ValueAtTime) *Statistics {
	s := &Statistics{}
	for i := range r.Transactions {
		switch r.Transactions[i].Type {
		case ledger.Commission:
			s.TotalCommission = s.TotalCommission.Add(r.Transactions[i].Amount)
		case ledger.FundingFee:
			s.TotalFunding = s.TotalFunding.Add(r.Transactions[i].Amount)
		case ledger.RealisedPNL:
			s.TotalRealisedPNL = s.TotalRealisedPNL.Add(r.Transactions[i].Amount)
		}
	}
	s.TotalFees = s.TotalCommission.Add(s.TotalFunding)
	for i := range r.Trades {
		s.Turnover = s.Turnover.Add(r.Trades[i].Notional)
		if r.Trades[i].IsOpen() {
			s.TotalOpens++
		} else {
			s.TotalCloses++
		}
	}

	s.EndingEquity = days[len(days)-1].Value
	s.HighestEquity, s.LowestEquity = extremes(days)
	s.CumulativeReturn = s.EndingEquity.Sub(r.StartingCash)
	s.CumulativeReturnPercent = pmath.DecimalPercentageGainOrLoss(s.EndingEquity, r.StartingCash)
	s.AverageDailyReturnPercent = averageReturnPercent(days, 1)
	s.AverageWeeklyReturnPercent = averageReturnPercent(days, 7)
	s.AverageMonthlyReturnPercent = averageReturnPercent(days, 30)
	s.AverageAnnualReturnPercent = averageReturnPercent(days, 365)

	returns := make([]decimal.Decimal, len(r.DailyEquity))
	for i := range r.DailyEquity {
		returns[i] = r.DailyEquity[i].Return
	}
	s.SharpeRatio = decimal.NewFromFloat(pmath.CalculateSharpeRatio(pmath.DecimalsToFloats(returns)))

	if worst, ok := maxDrawdown(r.Drawdowns); ok {
		s.MaxDrawdown = worst.Lowest.Value.Sub(worst.Highest.Value)
		s.MaxDrawdownPercent = worst.DrawdownPercent
		s.MaxDrawdownTime = worst.Lowest.Time
	}

	s.WinPercent, s.LossPercent = winLoss(r.Transactions)
	s.LongPercent, s.ShortPercent = longShort(r.Trades)
	s.Cadence = cadence(r.Trades)
	s.Intervals = timing(intervals(r.Trades))
	s.Durations = timing(durations(r.Trades))
	return s
}

// Statistics returns the scalar results of the run
func (r *Report) Statistics() (*Statistics, error) {
	if r == nil {
		return nil, fmt.Errorf("report %w", common.ErrNilPointer)
	}
	if r.Stats == nil {
		return nil, ErrEmptyReport
	}
	return r.Stats, nil
}

// Serialise outputs the report as a JSON string
func (r *Report) Serialise() (string, error) {
	resp, err := json.MarshalIndent(r, "", " ")
	if err != nil {
		return "", err
	}
	return string(resp), nil
}

// PrintResults outputs the report to the log
func (r *Report) PrintResults() {
	log.Info(log.Report, "------------------Run-----------------------------------------")
	log.Infof(log.Report, "Run ID: %v", r.Meta.ID)
	log.Infof(log.Report, "Strategy: %v", r.Meta.Strategy)
	log.Infof(log.Report, "Period: %v to %v", r.Meta.StartDate.Format(common.SimpleTimeFormat), r.Meta.EndDate.Format(common.SimpleTimeFormat))
	log.Infof(log.Report, "Candles processed: %v skipped: %v", r.Meta.CandlesProcessed, r.Meta.CandlesSkipped)
	log.Infof(log.Report, "Run duration: %v\n\n", r.Meta.RunDuration)

	s, err := r.Statistics()
	if err != nil {
		log.Warnf(log.Report, "No results: %v", err)
		return
	}
	quote := r.Settings.QuotePrecision
	log.Info(log.Report, "------------------Funds---------------------------------------")
	log.Infof(log.Report, "Starting cash: %v", r.StartingCash.StringFixed(quote))
	log.Infof(log.Report, "Final cash: %v", r.FinalCash.StringFixed(quote))
	log.Infof(log.Report, "Ending equity: %v", s.EndingEquity.StringFixed(quote))
	log.Infof(log.Report, "Highest equity: %v at %v", s.HighestEquity.Value.StringFixed(quote), s.HighestEquity.Time.Format(common.SimpleTimeFormat))
	log.Infof(log.Report, "Lowest equity: %v at %v", s.LowestEquity.Value.StringFixed(quote), s.LowestEquity.Time.Format(common.SimpleTimeFormat))
	log.Infof(log.Report, "Cumulative return: %v (%v%%)", s.CumulativeReturn.StringFixed(quote), s.CumulativeReturnPercent.StringFixed(2))
	log.Infof(log.Report, "Realised PNL: %v", s.TotalRealisedPNL.StringFixed(quote))
	log.Infof(log.Report, "Commission: %v Funding: %v Total fees: %v", s.TotalCommission.StringFixed(quote), s.TotalFunding.StringFixed(quote), s.TotalFees.StringFixed(quote))
	log.Infof(log.Report, "Turnover: %v\n\n", s.Turnover.StringFixed(quote))

	log.Info(log.Report, "------------------Returns-------------------------------------")
	log.Infof(log.Report, "Average daily return: %v%%", s.AverageDailyReturnPercent.StringFixed(4))
	log.Infof(log.Report, "Average weekly return: %v%%", s.AverageWeeklyReturnPercent.StringFixed(4))
	log.Infof(log.Report, "Average monthly return: %v%%", s.AverageMonthlyReturnPercent.StringFixed(4))
	log.Infof(log.Report, "Average annual return: %v%%", s.AverageAnnualReturnPercent.StringFixed(4))
	log.Infof(log.Report, "Sharpe ratio: %v\n\n", s.SharpeRatio.StringFixed(2))

	if len(r.Drawdowns) > 0 {
		log.Info(log.Report, "------------------Max Drawdown--------------------------------")
		log.Infof(log.Report, "Calculated drawdown: %v (%v%%)", s.MaxDrawdown.StringFixed(quote), s.MaxDrawdownPercent.StringFixed(2))
		log.Infof(log.Report, "Lowest equity time: %v", s.MaxDrawdownTime.Format(common.SimpleTimeFormat))
		log.Infof(log.Report, "Drawdown episodes: %v\n\n", len(r.Drawdowns))
	}

	log.Info(log.Report, "------------------Trades--------------------------------------")
	log.Infof(log.Report, "Total opens: %v closes: %v", s.TotalOpens, s.TotalCloses)
	log.Infof(log.Report, "Win / Loss: %v%% / %v%%", s.WinPercent.StringFixed(1), s.LossPercent.StringFixed(1))
	log.Infof(log.Report, "Long / Short: %v%% / %v%%", s.LongPercent.StringFixed(1), s.ShortPercent.StringFixed(1))
	log.Infof(log.Report, "Trades per day: %v week: %v month: %v year: %v", s.Cadence.Daily.StringFixed(2), s.Cadence.Weekly.StringFixed(2), s.Cadence.Monthly.StringFixed(2), s.Cadence.Annual.StringFixed(2))
	log.Infof(log.Report, "Trade interval avg: %v max: %v", s.Intervals.Average, s.Intervals.Max)
	log.Infof(log.Report, "Trade duration avg: %v max: %v\n\n", s.Durations.Average, s.Durations.Max)

	if len(r.OpenPositions) == 0 {
		return
	}
	log.Info(log.Report, "------------------Open Positions------------------------------")
	for i := range r.OpenPositions {
		p := &r.OpenPositions[i]
		log.Infof(log.Report, "%v %v @ %v leverage %vx liquidation: %v breakeven: %v",
			p.Side, p.Size, p.EntryPrice, p.Leverage, p.LiquidationPrice, p.BreakevenPrice)
	}
}

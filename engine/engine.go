package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/broker"
	"github.com/thrasher-corp/perpbacktester/common"
	"github.com/thrasher-corp/perpbacktester/config"
	"github.com/thrasher-corp/perpbacktester/data/kline"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/position"
	"github.com/thrasher-corp/perpbacktester/report"
	"github.com/thrasher-corp/perpbacktester/strategies"
	"github.com/thrasher-corp/perpbacktester/strategies/base"
)

var _ base.Trader = (*Engine)(nil)

// New returns an engine which will run the strategy against its own copy of
// the config. A nil config uses the defaults
func New(s strategies.Handler, cfg *config.Config, startCash decimal.Decimal) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("strategy %w", common.ErrNilPointer)
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	b, err := broker.New(startCash)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Engine{
		id:        id,
		strategy:  s,
		cfg:       cfg.Copy(),
		broker:    b,
		ledger:    &ledger.Ledger{},
		positions: make(map[position.Side]*position.Position),
	}, nil
}

// ID returns the run identifier
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Run replays every candle through the strategy and returns the report of
// the run. Any error aborts the run and no report is produced
func (e *Engine) Run(ctx context.Context, candles []kline.Candle) (*report.Report, error) {
	if e == nil {
		return nil, fmt.Errorf("engine %w", common.ErrNilPointer)
	}
	if e.hasRan {
		return nil, fmt.Errorf("%v %w", e.id, ErrAlreadyRan)
	}
	if len(candles) == 0 {
		return nil, kline.ErrEmptyDataFeed
	}
	if !e.broker.StartCash().IsPositive() {
		return nil, ErrZeroStartingCash
	}
	if err := kline.Validate(candles); err != nil {
		return nil, err
	}
	e.hasRan = true
	e.stream = kline.NewStream(candles)

	log.Infof(log.BackTester, "Run %v: running strategy %v over %v candles from %v to %v",
		e.id, e.strategy.Name(), len(candles),
		candles[0].Time.Format(common.SimpleTimeFormat),
		candles[len(candles)-1].Time.Format(common.SimpleTimeFormat))
	start := time.Now()
	for c, ok := e.stream.Next(); ok; c, ok = e.stream.Next() {
		if (e.stream.Offset()-1)%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := e.step(c); err != nil {
			log.Errorf(log.BackTester, "Run %v: aborted at %v: %v", e.id, c.Time.Format(common.SimpleTimeFormat), err)
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Infof(log.BackTester, "Run %v: processed %v candles, skipped %v incomplete candles in %v",
		e.id, e.processed, e.skipped, time.Since(start))

	return report.New(report.Meta{
		ID:               e.id,
		Strategy:         e.strategy.Name(),
		StartDate:        candles[0].Time,
		EndDate:          candles[len(candles)-1].Time,
		CandlesProcessed: e.processed,
		CandlesSkipped:   e.skipped,
		RunDuration:      time.Since(start),
	}, e.ledger, e.broker, e.cfg, e.openPositions()...)
}

// step handles one candle: funding, then the strategy, then the midnight
// equity snapshot. Candles missing a price are skipped entirely
func (e *Engine) step(c *kline.Candle) error {
	if !c.IsComplete() {
		e.skipped++
		log.Debugf(log.BackTester, "Run %v: skipping incomplete candle at %v", e.id, c.Time.Format(common.SimpleTimeFormat))
		return nil
	}
	e.processed++
	if err := e.applyFunding(c); err != nil {
		return err
	}

	e.inCallback = true
	err := e.strategy.OnData(*c, e)
	e.inCallback = false
	if err != nil {
		return fmt.Errorf("%w %v at %v: %w", errStrategyError, e.strategy.Name(), c.Time, err)
	}

	if c.Time.Hour() == 0 && c.Time.Minute() == 0 {
		return e.ledger.AddSnapshot(ledger.EquitySnapshot{
			Time:   c.Time,
			Equity: e.equity(c),
		})
	}
	return nil
}

// applyFunding charges open positions on funding hours. A long only pays
// while the configured leverage is above 1, a short always pays
func (e *Engine) applyFunding(c *kline.Candle) error {
	if c.Time.Minute() != 0 || !e.cfg.IsFundingHour(c.Time.Hour()) {
		return nil
	}
	for _, side := range []position.Side{position.Long, position.Short} {
		p, ok := e.positions[side]
		if !ok {
			continue
		}
		if side == position.Long && e.cfg.Leverage() <= 1 {
			continue
		}
		fee := p.Notional().Mul(e.cfg.FundingRate())
		if err := e.broker.Debit(fee); err != nil {
			return fmt.Errorf("funding %v position at %v: %w", side, c.Time, err)
		}
		if err := e.ledger.AddTransactions(ledger.Transaction{
			Time:   c.Time,
			Type:   ledger.FundingFee,
			Amount: fee.Neg(),
		}); err != nil {
			return err
		}
		log.Debugf(log.BackTester, "Run %v: %v funding fee %v at %v", e.id, side, fee, c.Time.Format(common.SimpleTimeFormat))
	}
	return nil
}

// equity is cash plus the margin and unrealised PNL of every open position
// at its mark price
func (e *Engine) equity(c *kline.Candle) decimal.Decimal {
	equity := e.broker.Cash()
	for _, p := range e.positions {
		mark, ok := c.Price(p.MarkField)
		if !ok {
			mark = c.Close.Decimal
		}
		equity = equity.Add(p.Margin()).Add(p.UnrealisedPNL(mark))
	}
	return equity
}

func (e *Engine) openPositions() []position.Position {
	var resp []position.Position
	for _, side := range []position.Side{position.Long, position.Short} {
		if p, ok := e.positions[side]; ok {
			resp = append(resp, *p)
		}
	}
	return resp
}

// Latest returns the candle being handled
func (e *Engine) Latest() kline.Candle {
	if e.stream == nil || e.stream.Latest() == nil {
		return kline.Candle{}
	}
	return *e.stream.Latest()
}

// History returns every candle up to and including the latest. The slice
// must not be modified
func (e *Engine) History() []kline.Candle {
	if e.stream == nil {
		return nil
	}
	return e.stream.History()
}

// Cash returns the current cash balance
func (e *Engine) Cash() decimal.Decimal {
	return e.broker.Cash()
}

// Config returns the live simulation config of the engine. Changes apply to
// later candles and new positions only
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Long returns a copy of the long position
func (e *Engine) Long() (position.Position, bool) {
	return e.get(position.Long)
}

// Short returns a copy of the short position
func (e *Engine) Short() (position.Position, bool) {
	return e.get(position.Short)
}

// HasLong reports whether a long position is open
func (e *Engine) HasLong() bool {
	_, ok := e.positions[position.Long]
	return ok
}

// HasShort reports whether a short position is open
func (e *Engine) HasShort() bool {
	_, ok := e.positions[position.Short]
	return ok
}

func (e *Engine) get(side position.Side) (position.Position, bool) {
	p, ok := e.positions[side]
	if !ok {
		return position.Position{}, false
	}
	return *p, true
}

// Trades returns every trade recorded so far
func (e *Engine) Trades() []ledger.Trade {
	return e.ledger.Trades()
}

// Transactions returns every cash movement recorded so far
func (e *Engine) Transactions() []ledger.Transaction {
	return e.ledger.Transactions()
}

package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/ledger"
	"github.com/thrasher-corp/perpbacktester/log"
	"github.com/thrasher-corp/perpbacktester/position"
)

// OpenLong buys quantity at price, or at the candle close when price is zero
// or less, adding to any open long position
func (e *Engine) OpenLong(quantity, price decimal.Decimal) error {
	return e.open(position.Long, quantity, price)
}

// OpenShort sells quantity at price, or at the candle close when price is
// zero or less, adding to any open short position
func (e *Engine) OpenShort(quantity, price decimal.Decimal) error {
	return e.open(position.Short, quantity, price)
}

// CloseLong sells quantity of the long position. A quantity of zero closes
// the whole position
func (e *Engine) CloseLong(quantity, price decimal.Decimal) error {
	return e.close(position.Long, quantity, price)
}

// CloseShort buys back quantity of the short position. A quantity of zero
// closes the whole position
func (e *Engine) CloseShort(quantity, price decimal.Decimal) error {
	return e.close(position.Short, quantity, price)
}

func (e *Engine) fillPrice(price decimal.Decimal) decimal.Decimal {
	if price.IsPositive() {
		return price
	}
	return e.stream.Latest().Close.Decimal
}

func openSide(side position.Side) ledger.Side {
	if side == position.Short {
		return ledger.Sell
	}
	return ledger.Buy
}

func closeSide(side position.Side) ledger.Side {
	if side == position.Short {
		return ledger.Buy
	}
	return ledger.Sell
}

// open validates and prices the order against a copy of the position before
// any cash moves so a failure leaves the engine untouched
func (e *Engine) open(side position.Side, quantity, price decimal.Decimal) error {
	if !e.inCallback {
		return errNotInCallback
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("open %v %w: %v", side, ErrInvalidQuantity, quantity)
	}
	c := e.stream.Latest()
	price = e.fillPrice(price)
	notional := price.Mul(quantity)
	fee := notional.Mul(e.cfg.FeeRate())

	var next *position.Position
	if existing, ok := e.positions[side]; ok {
		cpy := *existing
		if err := cpy.Increase(price, quantity); err != nil {
			return err
		}
		next = &cpy
	} else {
		p, err := position.New(side, price, quantity, c.Time, e.cfg.Leverage(), e.cfg.MarkPriceField())
		if err != nil {
			return err
		}
		next = p
	}
	margin := notional.Div(decimal.NewFromInt(next.Leverage))
	if err := e.broker.Debit(margin.Add(fee)); err != nil {
		return fmt.Errorf("open %v %v at %v: %w", side, quantity, price, err)
	}
	e.positions[side] = next

	if err := e.ledger.AddTrade(ledger.Trade{
		Time:     c.Time,
		Side:     openSide(side),
		Quantity: quantity,
		Price:    price,
		Notional: notional,
		Fee:      fee,
	}); err != nil {
		return err
	}
	if err := e.ledger.AddTransactions(ledger.Transaction{
		Time:   c.Time,
		Type:   ledger.Commission,
		Amount: fee.Neg(),
	}); err != nil {
		return err
	}
	log.Debugf(log.BackTester, "Run %v: open %v %v at %v, margin %v fee %v", e.id, side, quantity, price, margin, fee)
	return nil
}

// close realises the PNL of quantity and returns its margin less the fee.
// When the loss and fee exceed the margin the difference is debited, which
// fails if cash cannot cover it
func (e *Engine) close(side position.Side, quantity, price decimal.Decimal) error {
	if !e.inCallback {
		return errNotInCallback
	}
	p, ok := e.positions[side]
	if !ok {
		return fmt.Errorf("close %v: %w", side, ErrNoOpenPosition)
	}
	if quantity.IsNegative() {
		return fmt.Errorf("close %v %w: %v", side, ErrInvalidQuantity, quantity)
	}
	if quantity.IsZero() || quantity.GreaterThanOrEqual(p.Size) {
		quantity = p.Size
	}
	c := e.stream.Latest()
	price = e.fillPrice(price)
	pnl := p.PNL(price, quantity)
	notional := price.Mul(quantity)
	fee := notional.Mul(e.cfg.FeeRate())
	margin := p.CostBasis(quantity).Div(decimal.NewFromInt(p.Leverage))
	settlement := margin.Add(pnl).Sub(fee)

	cpy := *p
	if err := cpy.Decrease(quantity); err != nil {
		return err
	}
	if settlement.IsNegative() {
		if err := e.broker.Debit(settlement.Neg()); err != nil {
			return fmt.Errorf("close %v %v at %v: %w", side, quantity, price, err)
		}
	} else if err := e.broker.Credit(settlement); err != nil {
		return err
	}
	if cpy.IsClosed() {
		delete(e.positions, side)
	} else {
		e.positions[side] = &cpy
	}

	if err := e.ledger.AddTrade(ledger.Trade{
		Time:        c.Time,
		Side:        closeSide(side),
		Quantity:    quantity,
		Price:       price,
		Notional:    notional,
		Fee:         fee,
		RealisedPNL: decimal.NewNullDecimal(pnl),
	}); err != nil {
		return err
	}
	if err := e.ledger.AddTransactions(
		ledger.Transaction{Time: c.Time, Type: ledger.RealisedPNL, Amount: pnl},
		ledger.Transaction{Time: c.Time, Type: ledger.Commission, Amount: fee.Neg()},
	); err != nil {
		return err
	}
	log.Debugf(log.BackTester, "Run %v: close %v %v at %v, pnl %v fee %v", e.id, side, quantity, price, pnl, fee)
	return nil
}

package position

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/perpbacktester/data/kline"
)

var one = decimal.NewFromInt(1)

// String implements the stringer interface
func (s Side) String() string {
	return string(s)
}

// IsValid returns whether the side is long or short
func (s Side) IsValid() bool {
	return s == Long || s == Short
}

// New opens a position at the supplied price and size
func New(side Side, price, size decimal.Decimal, createdAt time.Time, leverage int64, markField kline.Field) (*Position, error) {
	if !side.IsValid() {
		return nil, fmt.Errorf("%w '%v'", errInvalidSide, side)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: %v", errInvalidPrice, price)
	}
	if !size.IsPositive() {
		return nil, fmt.Errorf("%w: %v", errInvalidSize, size)
	}
	if leverage < 1 {
		return nil, fmt.Errorf("%w: %d", errInvalidLeverage, leverage)
	}
	if createdAt.IsZero() {
		return nil, errTimeUnset
	}
	if markField == kline.UnsetField {
		markField = kline.Close
	}
	return &Position{
		Side:       side,
		EntryPrice: price,
		Size:       size,
		CreatedAt:  createdAt,
		Leverage:   leverage,
		MarkField:  markField,
		cost:       price.Mul(size),
	}, nil
}

// Notional returns entry price * size
func (p *Position) Notional() decimal.Decimal {
	if p.cost.IsZero() {
		return p.EntryPrice.Mul(p.Size)
	}
	return p.cost
}

// CostBasis returns the share of the notional held by size units. The whole
// size returns the exact notional
func (p *Position) CostBasis(size decimal.Decimal) decimal.Decimal {
	if !p.Size.IsPositive() || size.Equal(p.Size) {
		return p.Notional()
	}
	return p.Notional().Mul(size).Div(p.Size)
}

// Margin returns the collateral locked by the position
func (p *Position) Margin() decimal.Decimal {
	return p.Notional().Div(decimal.NewFromInt(p.Leverage))
}

// UnrealisedPNL returns the profit or loss of the whole position if it were
// closed at the mark price
func (p *Position) UnrealisedPNL(mark decimal.Decimal) decimal.Decimal {
	return p.PNL(mark, p.Size)
}

// PNL returns the profit or loss of closing size units at price
func (p *Position) PNL(price, size decimal.Decimal) decimal.Decimal {
	pnl := price.Mul(size).Sub(p.CostBasis(size))
	if p.Side == Short {
		return pnl.Neg()
	}
	return pnl
}

// Increase adds size at price and re-averages the entry price
func (p *Position) Increase(price, size decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: %v", errInvalidPrice, price)
	}
	if !size.IsPositive() {
		return fmt.Errorf("%w: %v", errInvalidSize, size)
	}
	p.cost = p.Notional().Add(price.Mul(size))
	p.Size = p.Size.Add(size)
	p.EntryPrice = p.cost.Div(p.Size)
	return nil
}

// Decrease removes size from the position. The entry price is unchanged. A
// resulting size of zero or less means the position should be discarded by
// the caller
func (p *Position) Decrease(size decimal.Decimal) error {
	if !size.IsPositive() {
		return fmt.Errorf("%w: %v", errInvalidSize, size)
	}
	remaining := p.Size.Sub(size)
	if remaining.IsPositive() {
		p.cost = p.CostBasis(remaining)
	} else {
		p.cost = decimal.Zero
	}
	p.Size = remaining
	return nil
}

// IsClosed reports whether the remaining size is zero or less
func (p *Position) IsClosed() bool {
	return !p.Size.IsPositive()
}

// LiquidationPrice returns the mark price at which the unrealised loss
// consumes all margin. Maintenance margin is not modelled
func (p *Position) LiquidationPrice() decimal.Decimal {
	inverse := one.Div(decimal.NewFromInt(p.Leverage))
	if p.Side == Short {
		return p.EntryPrice.Mul(one.Add(inverse))
	}
	return p.EntryPrice.Mul(one.Sub(inverse))
}

// BreakevenPrice returns the exit price at which the realised PnL covers the
// commission paid on both entry and exit notional
func (p *Position) BreakevenPrice(feeRate decimal.Decimal) decimal.Decimal {
	if p.Side == Short {
		return p.EntryPrice.Mul(one.Sub(feeRate)).Div(one.Add(feeRate))
	}
	if feeRate.GreaterThanOrEqual(one) {
		return decimal.Zero
	}
	return p.EntryPrice.Mul(one.Add(feeRate)).Div(one.Sub(feeRate))
}

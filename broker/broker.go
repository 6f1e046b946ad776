package broker

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds available cash
	ErrInsufficientFunds = errors.New("insufficient funds")

	errNegativeAmount = errors.New("amount cannot be negative")
)

// Broker holds the single cash balance of a simulation. Cash is never
// negative
type Broker struct {
	cash      decimal.Decimal
	startCash decimal.Decimal
}

// New returns a broker holding the starting cash
func New(startCash decimal.Decimal) (*Broker, error) {
	if startCash.IsNegative() {
		return nil, fmt.Errorf("starting cash %w: %v", errNegativeAmount, startCash)
	}
	return &Broker{cash: startCash, startCash: startCash}, nil
}

// Cash returns the current balance
func (b *Broker) Cash() decimal.Decimal {
	return b.cash
}

// StartCash returns the balance the broker was created with
func (b *Broker) StartCash() decimal.Decimal {
	return b.startCash
}

// Credit adds to cash unconditionally
func (b *Broker) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("credit %w: %v", errNegativeAmount, amount)
	}
	b.cash = b.cash.Add(amount)
	return nil
}

// Debit removes from cash, failing without change when the balance cannot
// cover the amount
func (b *Broker) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("debit %w: %v", errNegativeAmount, amount)
	}
	if b.cash.LessThan(amount) {
		return fmt.Errorf("%w: cash %v, required %v", ErrInsufficientFunds, b.cash, amount)
	}
	b.cash = b.cash.Sub(amount)
	return nil
}

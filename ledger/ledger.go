package ledger

import (
	"fmt"
	"slices"
)

// IsOpen reports whether the trade opened exposure
func (t *Trade) IsOpen() bool {
	return !t.RealisedPNL.Valid
}

// IsClose reports whether the trade closed exposure
func (t *Trade) IsClose() bool {
	return t.RealisedPNL.Valid
}

// AddTrade appends a trade
func (l *Ledger) AddTrade(t Trade) error {
	if t.Time.IsZero() {
		return fmt.Errorf("trade %w", errTimeUnset)
	}
	l.m.Lock()
	l.trades = append(l.trades, t)
	l.m.Unlock()
	return nil
}

// AddTransactions appends one or more transactions
func (l *Ledger) AddTransactions(txs ...Transaction) error {
	for i := range txs {
		if txs[i].Time.IsZero() {
			return fmt.Errorf("%v transaction %w", txs[i].Type, errTimeUnset)
		}
	}
	l.m.Lock()
	l.transactions = append(l.transactions, txs...)
	l.m.Unlock()
	return nil
}

// AddSnapshot appends an equity snapshot
func (l *Ledger) AddSnapshot(s EquitySnapshot) error {
	if s.Time.IsZero() {
		return fmt.Errorf("snapshot %w", errTimeUnset)
	}
	l.m.Lock()
	l.snapshots = append(l.snapshots, s)
	l.m.Unlock()
	return nil
}

// Trades returns a copy of all trades in insertion order
func (l *Ledger) Trades() []Trade {
	l.m.RLock()
	defer l.m.RUnlock()
	return slices.Clone(l.trades)
}

// Transactions returns a copy of all transactions in insertion order
func (l *Ledger) Transactions() []Transaction {
	l.m.RLock()
	defer l.m.RUnlock()
	return slices.Clone(l.transactions)
}

// Snapshots returns a copy of all equity snapshots in insertion order
func (l *Ledger) Snapshots() []EquitySnapshot {
	l.m.RLock()
	defer l.m.RUnlock()
	return slices.Clone(l.snapshots)
}

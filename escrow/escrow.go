package escrow

import (
	"math"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

// NewLedger returns the pull-payment escrow. Proceeds accumulate per identity
// until withdrawn.
func NewLedger() *Ledger {
	return &Ledger{}
}

type Ledger struct{}

// Credit adds amount to the pending balance of identity. The entry is created
// on first credit. A credit that would overflow the balance or the received
// total is rejected and nothing is staged.
func (l *Ledger) Credit(tx *ledger.Tx, identity model.Identity, amount uint64) error {
	pending, t := tx.Pending(identity), tx.Totals()
	if amount > math.MaxUint64-pending || amount > math.MaxUint64-t.Received {
		return model.NewError(model.InvalidRequest, "crediting %d to %s overflows escrow", amount, identity)
	}

	tx.SetPending(identity, pending+amount)
	t.Received += amount
	tx.SetTotals(t)
	return nil
}

func (l *Ledger) PendingBalance(r ledger.Reader, identity model.Identity) uint64 {
	return r.Pending(identity)
}

// Withdraw zeroes the pending balance of identity and returns it for external
// settlement. The entry stays at zero.
func (l *Ledger) Withdraw(tx *ledger.Tx, identity model.Identity) (uint64, error) {
	amount := tx.Pending(identity)
	if amount == 0 {
		return 0, model.NewError(model.InsufficientPendingBalance, "nothing to withdraw for %s", identity)
	}

	tx.SetPending(identity, 0)
	t := tx.Totals()
	t.Withdrawn += amount
	tx.SetTotals(t)
	return amount, nil
}

// Restore puts back an amount whose settlement failed after withdrawal.
func (l *Ledger) Restore(tx *ledger.Tx, identity model.Identity, amount uint64) {
	tx.SetPending(identity, tx.Pending(identity)+amount)
	t := tx.Totals()
	t.Withdrawn -= amount
	tx.SetTotals(t)
}

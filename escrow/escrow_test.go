package escrow

import (
	"math"
	"testing"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditAccumulates(t *testing.T) {
	l := NewLedger()
	s := ledger.NewState()

	tx := ledger.Begin(s)
	require.Nil(t, l.Credit(tx, "alice", 100))
	require.Nil(t, l.Credit(tx, "alice", 50))
	require.Nil(t, l.Credit(tx, "bob", 0))
	s.Apply(tx.Changes())

	assert.Equal(t, uint64(150), l.PendingBalance(s, "alice"))
	assert.Equal(t, uint64(0), l.PendingBalance(s, "bob"))
	assert.Equal(t, uint64(0), l.PendingBalance(s, "carol"))
	assert.Equal(t, ledger.Totals{Received: 150}, s.Totals())
}

func TestWithdraw(t *testing.T) {
	l := NewLedger()
	s := ledger.NewState()

	tx := ledger.Begin(s)
	require.Nil(t, l.Credit(tx, "alice", 80))
	s.Apply(tx.Changes())

	tx = ledger.Begin(s)
	amount, err := l.Withdraw(tx, "alice")
	require.Nil(t, err)
	assert.Equal(t, uint64(80), amount)
	s.Apply(tx.Changes())

	assert.Equal(t, uint64(0), l.PendingBalance(s, "alice"))
	assert.Equal(t, ledger.Totals{Received: 80, Withdrawn: 80}, s.Totals())
	_, tracked := s.Balances()["alice"]
	assert.True(t, tracked, "withdrawn entry stays at zero")

	_, err = l.Withdraw(ledger.Begin(s), "alice")
	assert.True(t, model.IsKind(err, model.InsufficientPendingBalance))

	_, err = l.Withdraw(ledger.Begin(s), "nobody")
	assert.True(t, model.IsKind(err, model.InsufficientPendingBalance))
}

func TestRestore(t *testing.T) {
	l := NewLedger()
	s := ledger.NewState()

	tx := ledger.Begin(s)
	require.Nil(t, l.Credit(tx, "alice", 30))
	amount, err := l.Withdraw(tx, "alice")
	require.Nil(t, err)
	l.Restore(tx, "alice", amount)
	s.Apply(tx.Changes())

	assert.Equal(t, uint64(30), l.PendingBalance(s, "alice"))
	assert.Equal(t, ledger.Totals{Received: 30}, s.Totals())
	assert.Equal(t, s.Totals().Received-s.Totals().Withdrawn, s.TotalPending())
}

func TestCreditRejectsOverflow(t *testing.T) {
	l := NewLedger()
	s := ledger.NewState()

	tx := ledger.Begin(s)
	require.Nil(t, l.Credit(tx, "alice", math.MaxUint64))
	s.Apply(tx.Changes())

	tx = ledger.Begin(s)
	err := l.Credit(tx, "alice", 2)
	assert.True(t, model.IsKind(err, model.InvalidRequest))
	err = l.Credit(tx, "bob", 1)
	assert.True(t, model.IsKind(err, model.InvalidRequest), "received total would overflow")
	s.Apply(tx.Changes())

	assert.Equal(t, uint64(math.MaxUint64), l.PendingBalance(s, "alice"))
	assert.Equal(t, uint64(0), l.PendingBalance(s, "bob"))
	assert.Equal(t, ledger.Totals{Received: math.MaxUint64}, s.Totals())
}

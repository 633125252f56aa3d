package ledger

import (
	"testing"
	"ticketing-marketplace-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *State {
	s := NewState()
	tx := Begin(s)
	tx.PutTicket(model.Ticket{ID: 1, EventID: 5, SeatID: "A", Owner: "alice", Price: 10})
	tx.PutEvent(model.Event{ID: 5, Owner: "alice", Status: model.Active, TicketIDs: []uint64{1}})
	s.Apply(tx.Changes())
	require.Equal(t, uint64(1), s.Version())
	return s
}

func TestTxReadsThroughToBase(t *testing.T) {
	s := seeded(t)
	tx := Begin(s)

	e, ok := tx.Event(5)
	require.True(t, ok)
	assert.Equal(t, model.Identity("alice"), e.Owner)

	tk, ok := tx.Ticket(1)
	require.True(t, ok)
	assert.Equal(t, "A", tk.SeatID)

	_, ok = tx.Ticket(2)
	assert.False(t, ok)
	assert.Equal(t, []uint64{5}, tx.EventIDs())
}

func TestTxStagesWithoutTouchingBase(t *testing.T) {
	s := seeded(t)
	tx := Begin(s)

	tk, _ := tx.Ticket(1)
	tk.Owner = "bob"
	tx.PutTicket(tk)
	tx.SetPending("alice", 10)
	tx.SetTotals(Totals{Received: 10})
	tx.PutEvent(model.Event{ID: 6, Owner: "bob", Status: model.Active})

	staged, _ := tx.Ticket(1)
	assert.Equal(t, model.Identity("bob"), staged.Owner)
	assert.Equal(t, uint64(10), tx.Pending("alice"))
	assert.Equal(t, []uint64{5, 6}, tx.EventIDs())

	committed, _ := s.Ticket(1)
	assert.Equal(t, model.Identity("alice"), committed.Owner)
	assert.Equal(t, uint64(0), s.Pending("alice"))
	assert.Equal(t, []uint64{5}, s.EventIDs())
	assert.Equal(t, uint64(1), s.Version())
}

func TestChanges(t *testing.T) {
	s := seeded(t)
	tx := Begin(s)

	e, _ := tx.Event(5)
	e.Status = model.Cancelled
	tx.PutEvent(e)
	tx.PutEvent(model.Event{ID: 9, Owner: "bob", Status: model.Active})
	tx.PutEvent(model.Event{ID: 9, Owner: "bob", Status: model.Active, TicketIDs: []uint64{}})

	c := tx.Changes()
	assert.Equal(t, uint64(2), c.Version)
	assert.Equal(t, []uint64{9}, c.Appended)
	assert.Len(t, c.Events, 2)
	assert.False(t, c.Empty())

	pos, ok := c.Position(9)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	_, ok = c.Position(5)
	assert.False(t, ok)

	s.Apply(c)
	assert.Equal(t, []uint64{5, 9}, s.EventIDs())
	got, _ := s.Event(5)
	assert.Equal(t, model.Cancelled, got.Status)
}

func TestEmptyChanges(t *testing.T) {
	s := seeded(t)
	c := Begin(s).Changes()
	assert.True(t, c.Empty())
	assert.Equal(t, uint64(2), c.Version)
}

func TestEventCopiesAreIsolated(t *testing.T) {
	s := seeded(t)

	e, _ := s.Event(5)
	e.TicketIDs[0] = 99

	again, _ := s.Event(5)
	assert.Equal(t, []uint64{1}, again.TicketIDs)

	ids := s.EventIDs()
	ids[0] = 42
	assert.Equal(t, []uint64{5}, s.EventIDs())
}

func TestSnapshotRebuildsState(t *testing.T) {
	s := seeded(t)
	tx := Begin(s)
	tx.SetPending("alice", 7)
	tx.SetPending("bob", 0)
	tx.SetTotals(Totals{Received: 9, Withdrawn: 2})
	s.Apply(tx.Changes())

	rebuilt := NewState()
	rebuilt.Apply(s.Snapshot())

	assert.Equal(t, s.Version(), rebuilt.Version())
	assert.Equal(t, s.EventIDs(), rebuilt.EventIDs())
	assert.Equal(t, s.Balances(), rebuilt.Balances())
	assert.Equal(t, s.Totals(), rebuilt.Totals())
	assert.Equal(t, uint64(7), rebuilt.TotalPending())
	tk, ok := rebuilt.Ticket(1)
	require.True(t, ok)
	assert.Equal(t, uint64(10), tk.Price)
}

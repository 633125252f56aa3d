package ticket

import (
	"testing"
	"ticketing-marketplace-backend/event"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	events  *event.Registry
	tickets *Ledger
	state   *ledger.State
}

func newFixture(t *testing.T) *fixture {
	events := event.NewRegistry()
	f := &fixture{events: events, tickets: NewLedger(events), state: ledger.NewState()}

	require.Nil(t, f.apply(func(tx *ledger.Tx) error {
		_, err := events.Create(tx, model.NewEvent{ID: 1, Owner: "alice", Seats: []model.SeatSpec{
			{TicketID: 1, SeatID: "101", Price: 100},
			{TicketID: 2, SeatID: "102", Price: 100},
		}})
		return err
	}))
	require.Nil(t, f.apply(func(tx *ledger.Tx) error {
		_, err := events.Create(tx, model.NewEvent{ID: 2, Owner: "bob", Seats: []model.SeatSpec{
			{TicketID: 3, SeatID: "201", Price: 50},
		}})
		return err
	}))
	return f
}

func (f *fixture) apply(fn func(tx *ledger.Tx) error) error {
	tx := ledger.Begin(f.state)
	if err := fn(tx); err != nil {
		return err
	}
	f.state.Apply(tx.Changes())
	return nil
}

func TestGet(t *testing.T) {
	f := newFixture(t)

	tk, err := f.tickets.Get(f.state, 3)
	require.Nil(t, err)
	assert.Equal(t, model.Identity("bob"), tk.Owner)

	_, err = f.tickets.Get(f.state, 4)
	assert.True(t, model.IsKind(err, model.TicketNotFound))
}

func TestSetAndRemoveFromSale(t *testing.T) {
	f := newFixture(t)

	err := f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 1, "bob", 120) })
	assert.True(t, model.IsKind(err, model.NotOwner))

	err = f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 9, "alice", 120) })
	assert.True(t, model.IsKind(err, model.TicketNotFound))

	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 1, "alice", 120) }))
	tk, _ := f.tickets.Get(f.state, 1)
	assert.True(t, tk.IsForSale)
	assert.Equal(t, uint64(120), tk.Price)

	// Relisting changes the price.
	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 1, "alice", 90) }))
	tk, _ = f.tickets.Get(f.state, 1)
	assert.Equal(t, uint64(90), tk.Price)

	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.RemoveFromSale(tx, 1, "alice") }))
	tk, _ = f.tickets.Get(f.state, 1)
	assert.False(t, tk.IsForSale)
	assert.Equal(t, uint64(90), tk.Price)
}

func TestSetForSaleNeedsActiveEvent(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.events.Cancel(tx, 1, "alice") }))

	err := f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 1, "alice", 10) })
	assert.True(t, model.IsKind(err, model.EventNotActive))

	// Delisting stays possible after the event ends.
	assert.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.RemoveFromSale(tx, 1, "alice") }))
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.apply(func(tx *ledger.Tx) error {
		tk, _ := tx.Ticket(2)
		tk.IsForSale = true
		tk.IsPayedFor = true
		tx.PutTicket(tk)
		return nil
	}))

	err := f.apply(func(tx *ledger.Tx) error { return f.tickets.TransferOwnership(tx, 2, "bob", "carol") })
	assert.True(t, model.IsKind(err, model.NotOwner))

	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.TransferOwnership(tx, 2, "alice", "carol") }))
	tk, _ := f.tickets.Get(f.state, 2)
	assert.Equal(t, model.Identity("carol"), tk.Owner)
	assert.False(t, tk.IsForSale)
	assert.True(t, tk.IsPayedFor)

	// Sending to oneself is allowed and still delists.
	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.TransferOwnership(tx, 2, "carol", "carol") }))
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.TransferOwnership(tx, 1, "alice", "bob") }))
	require.Nil(t, f.apply(func(tx *ledger.Tx) error { return f.tickets.SetForSale(tx, 3, "bob", 75) }))

	bobs := f.tickets.TicketsForUser(f.state, "bob")
	require.Len(t, bobs, 2)
	assert.Equal(t, uint64(1), bobs[0].ID)
	assert.Equal(t, uint64(3), bobs[1].ID)

	assert.NotNil(t, f.tickets.TicketsForUser(f.state, "nobody"))
	assert.Empty(t, f.tickets.TicketsForUser(f.state, "nobody"))

	forSale := f.tickets.TicketsForSale(f.state, 2)
	require.Len(t, forSale, 1)
	assert.Equal(t, uint64(75), forSale[0].Price)

	assert.Empty(t, f.tickets.TicketsForSale(f.state, 1))
	assert.Empty(t, f.tickets.TicketsForSale(f.state, 42))
}

package ledger

import (
	"ticketing-marketplace-backend/model"
)

// Changes is the write set of one committed operation.
type Changes struct {
	Version uint64
	// FirstPosition is the insertion index of Appended[0].
	FirstPosition int
	Events        []model.Event
	Appended      []uint64
	Tickets       []model.Ticket
	Balances      map[model.Identity]uint64
	Totals        Totals
}

func (c Changes) Empty() bool {
	return len(c.Events) == 0 && len(c.Tickets) == 0 && len(c.Balances) == 0
}

// Position returns the insertion index of a newly appended event.
func (c Changes) Position(eventID uint64) (int, bool) {
	for i, id := range c.Appended {
		if id == eventID {
			return c.FirstPosition + i, true
		}
	}
	return 0, false
}

// Tx stages writes over a committed State. Nothing reaches the State until
// the owner applies Changes(); a discarded Tx leaves no trace.
type Tx struct {
	base *State

	events      map[uint64]model.Event
	eventOrder  []uint64
	appended    []uint64
	tickets     map[uint64]model.Ticket
	ticketOrder []uint64
	pending     map[model.Identity]uint64
	totals      Totals
}

func Begin(base *State) *Tx {
	return &Tx{
		base:    base,
		events:  make(map[uint64]model.Event),
		tickets: make(map[uint64]model.Ticket),
		pending: make(map[model.Identity]uint64),
		totals:  base.totals,
	}
}

func (tx *Tx) Event(id uint64) (model.Event, bool) {
	if e, ok := tx.events[id]; ok {
		return copyEvent(e), true
	}
	return tx.base.Event(id)
}

func (tx *Tx) EventIDs() []uint64 {
	return append(tx.base.EventIDs(), tx.appended...)
}

// PutEvent stages e; an id unknown to the ledger is appended to the
// insertion order.
func (tx *Tx) PutEvent(e model.Event) {
	if _, staged := tx.events[e.ID]; !staged {
		tx.eventOrder = append(tx.eventOrder, e.ID)
		if _, exists := tx.base.events[e.ID]; !exists {
			tx.appended = append(tx.appended, e.ID)
		}
	}
	tx.events[e.ID] = copyEvent(e)
}

func (tx *Tx) Ticket(id uint64) (model.Ticket, bool) {
	if t, ok := tx.tickets[id]; ok {
		return t, true
	}
	return tx.base.Ticket(id)
}

func (tx *Tx) PutTicket(t model.Ticket) {
	if _, staged := tx.tickets[t.ID]; !staged {
		tx.ticketOrder = append(tx.ticketOrder, t.ID)
	}
	tx.tickets[t.ID] = t
}

func (tx *Tx) Pending(identity model.Identity) uint64 {
	if v, ok := tx.pending[identity]; ok {
		return v
	}
	return tx.base.Pending(identity)
}

func (tx *Tx) SetPending(identity model.Identity, amount uint64) {
	tx.pending[identity] = amount
}

func (tx *Tx) Totals() Totals {
	return tx.totals
}

func (tx *Tx) SetTotals(t Totals) {
	tx.totals = t
}

// Changes returns the staged write set, stamped with the next version.
func (tx *Tx) Changes() Changes {
	c := Changes{
		Version:       tx.base.version + 1,
		FirstPosition: len(tx.base.order),
		Appended:      append([]uint64(nil), tx.appended...),
		Balances:      make(map[model.Identity]uint64, len(tx.pending)),
		Totals:        tx.totals,
	}
	for _, id := range tx.eventOrder {
		c.Events = append(c.Events, copyEvent(tx.events[id]))
	}
	for _, id := range tx.ticketOrder {
		c.Tickets = append(c.Tickets, tx.tickets[id])
	}
	for k, v := range tx.pending {
		c.Balances[k] = v
	}
	return c
}

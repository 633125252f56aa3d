// Package ledger holds the committed marketplace state and the staging
// transaction every mutating operation writes through.
package ledger

import (
	"ticketing-marketplace-backend/model"
)

// Reader is the read surface shared by the committed State and a Tx.
type Reader interface {
	Event(id uint64) (model.Event, bool)
	EventIDs() []uint64
	Ticket(id uint64) (model.Ticket, bool)
	Pending(identity model.Identity) uint64
}

// Totals tracks value that entered and left escrow.
type Totals struct {
	Received  uint64 `json:"total_received"`
	Withdrawn uint64 `json:"total_withdrawn"`
}

// State is the committed ledger. It is not safe for concurrent use; the
// marketplace engine guards it.
type State struct {
	version uint64
	events  map[uint64]model.Event
	order   []uint64
	tickets map[uint64]model.Ticket
	pending map[model.Identity]uint64
	totals  Totals
}

func NewState() *State {
	return &State{
		events:  make(map[uint64]model.Event),
		tickets: make(map[uint64]model.Ticket),
		pending: make(map[model.Identity]uint64),
	}
}

func (s *State) Event(id uint64) (model.Event, bool) {
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, false
	}
	return copyEvent(e), true
}

// EventIDs returns event ids in insertion order.
func (s *State) EventIDs() []uint64 {
	ids := make([]uint64, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *State) Ticket(id uint64) (model.Ticket, bool) {
	t, ok := s.tickets[id]
	return t, ok
}

func (s *State) Pending(identity model.Identity) uint64 {
	return s.pending[identity]
}

// Balances returns a copy of every escrow entry, including zeroed ones.
func (s *State) Balances() map[model.Identity]uint64 {
	b := make(map[model.Identity]uint64, len(s.pending))
	for k, v := range s.pending {
		b[k] = v
	}
	return b
}

func (s *State) TotalPending() uint64 {
	var sum uint64
	for _, v := range s.pending {
		sum += v
	}
	return sum
}

func (s *State) Totals() Totals {
	return s.totals
}

func (s *State) Version() uint64 {
	return s.version
}

// Apply commits a change set produced by a Tx begun on s, or a full snapshot
// loaded from a store.
func (s *State) Apply(c Changes) {
	for _, e := range c.Events {
		s.events[e.ID] = copyEvent(e)
	}
	s.order = append(s.order, c.Appended...)
	for _, t := range c.Tickets {
		s.tickets[t.ID] = t
	}
	for id, amount := range c.Balances {
		s.pending[id] = amount
	}
	s.totals = c.Totals
	s.version = c.Version
}

// Snapshot returns the whole state as a change set that rebuilds it when
// applied to an empty State.
func (s *State) Snapshot() Changes {
	c := Changes{
		Version:  s.version,
		Appended: s.EventIDs(),
		Balances: s.Balances(),
		Totals:   s.totals,
	}
	for _, id := range s.order {
		e := s.events[id]
		c.Events = append(c.Events, copyEvent(e))
		for _, tid := range e.TicketIDs {
			c.Tickets = append(c.Tickets, s.tickets[tid])
		}
	}
	return c
}

func copyEvent(e model.Event) model.Event {
	if e.TicketIDs != nil {
		ids := make([]uint64, len(e.TicketIDs))
		copy(ids, e.TicketIDs)
		e.TicketIDs = ids
	}
	return e
}

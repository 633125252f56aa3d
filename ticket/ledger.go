package ticket

import (
	"ticketing-marketplace-backend/access"
	"ticketing-marketplace-backend/event"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

// NewLedger returns the ticket ledger. Event status checks go through events.
func NewLedger(events *event.Registry) *Ledger {
	return &Ledger{events: events}
}

// Ledger owns ticket ownership and listing state.
type Ledger struct {
	events *event.Registry
}

func (l *Ledger) Get(r ledger.Reader, id uint64) (model.Ticket, error) {
	t, ok := r.Ticket(id)
	if !ok {
		return model.Ticket{}, model.NewError(model.TicketNotFound, "ticket %d does not exist", id)
	}
	return t, nil
}

// SetForSale lists the ticket at price. Only the owner may list, and only
// while the event is Active.
func (l *Ledger) SetForSale(tx *ledger.Tx, id uint64, caller model.Identity, price uint64) error {
	t, err := l.owned(tx, id, caller)
	if err != nil {
		return err
	}
	if !l.events.IsActive(tx, t.EventID) {
		return model.NewError(model.EventNotActive, "event %d of ticket %d is not active", t.EventID, id)
	}

	t.Price = price
	t.IsForSale = true
	tx.PutTicket(t)
	return nil
}

func (l *Ledger) RemoveFromSale(tx *ledger.Tx, id uint64, caller model.Identity) error {
	t, err := l.owned(tx, id, caller)
	if err != nil {
		return err
	}

	t.IsForSale = false
	tx.PutTicket(t)
	return nil
}

// TransferOwnership sends the ticket to recipient and delists it. The paid
// flag is kept.
func (l *Ledger) TransferOwnership(tx *ledger.Tx, id uint64, caller, recipient model.Identity) error {
	t, err := l.owned(tx, id, caller)
	if err != nil {
		return err
	}

	t.Owner = recipient
	t.IsForSale = false
	tx.PutTicket(t)
	return nil
}

// TicketsForUser returns the tickets owned by identity, in event insertion
// order then seat order.
func (l *Ledger) TicketsForUser(r ledger.Reader, identity model.Identity) []model.Ticket {
	return collect(r, r.EventIDs(), func(t model.Ticket) bool { return t.Owner == identity })
}

// TicketsForSale returns the listed tickets of eventID. An unknown event has
// none.
func (l *Ledger) TicketsForSale(r ledger.Reader, eventID uint64) []model.Ticket {
	return collect(r, []uint64{eventID}, func(t model.Ticket) bool { return t.IsForSale })
}

func (l *Ledger) owned(r ledger.Reader, id uint64, caller model.Identity) (model.Ticket, error) {
	t, err := l.Get(r, id)
	if err != nil {
		return model.Ticket{}, err
	}
	if !access.IsTicketOwner(r, caller, id) {
		return model.Ticket{}, model.NewError(model.NotOwner, "%s does not own ticket %d", caller, id)
	}
	return t, nil
}

func collect(r ledger.Reader, eventIDs []uint64, keep func(model.Ticket) bool) []model.Ticket {
	tickets := []model.Ticket{}
	for _, eid := range eventIDs {
		e, ok := r.Event(eid)
		if !ok {
			continue
		}
		for _, tid := range e.TicketIDs {
			if t, ok := r.Ticket(tid); ok && keep(t) {
				tickets = append(tickets, t)
			}
		}
	}
	return tickets
}

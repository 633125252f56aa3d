package event

import (
	"ticketing-marketplace-backend/access"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

// NewRegistry returns the event registry. It owns event records and their
// lifecycle; tickets are allocated together with their event.
func NewRegistry() *Registry {
	return &Registry{}
}

type Registry struct{}

// Create records a new Active event and allocates one unlisted ticket per seat,
// owned by the event owner.
func (r *Registry) Create(tx *ledger.Tx, ne model.NewEvent) (model.Event, error) {
	if e, ok := tx.Event(ne.ID); ok && e.Status != model.DoesNotExist {
		return model.Event{}, model.NewError(model.DuplicateEventID, "event %d already exists", ne.ID)
	}

	seats := make(map[string]struct{}, len(ne.Seats))
	ticketIDs := make(map[uint64]struct{}, len(ne.Seats))
	for _, s := range ne.Seats {
		if _, dup := seats[s.SeatID]; dup {
			return model.Event{}, model.NewError(model.DuplicateSeat, "seat %s listed twice for event %d", s.SeatID, ne.ID)
		}
		seats[s.SeatID] = struct{}{}

		_, dup := ticketIDs[s.TicketID]
		if _, exists := tx.Ticket(s.TicketID); dup || exists {
			return model.Event{}, model.NewError(model.DuplicateTicketID, "ticket %d already exists", s.TicketID)
		}
		ticketIDs[s.TicketID] = struct{}{}
	}

	e := model.Event{
		ID:             ne.ID,
		Owner:          ne.Owner,
		Name:           ne.Name,
		Description:    ne.Description,
		StartTimestamp: ne.StartTimestamp,
		Status:         model.Active,
		TicketIDs:      make([]uint64, 0, len(ne.Seats)),
	}
	for _, s := range ne.Seats {
		e.TicketIDs = append(e.TicketIDs, s.TicketID)
		tx.PutTicket(model.Ticket{
			ID:      s.TicketID,
			EventID: ne.ID,
			SeatID:  s.SeatID,
			Owner:   ne.Owner,
			Price:   s.Price,
		})
	}
	tx.PutEvent(e)

	return e, nil
}

// Get returns the event with id. An unknown id yields a zero Event whose
// status is DoesNotExist and ok == false.
func (r *Registry) Get(rd ledger.Reader, id uint64) (model.Event, bool) {
	e, ok := rd.Event(id)
	if !ok {
		return model.Event{ID: id, Status: model.DoesNotExist}, false
	}
	return e, true
}

// All returns every event in insertion order.
func (r *Registry) All(rd ledger.Reader) []model.Event {
	ids := rd.EventIDs()
	events := make([]model.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := rd.Event(id); ok {
			events = append(events, e)
		}
	}
	return events
}

func (r *Registry) Cancel(tx *ledger.Tx, id uint64, caller model.Identity) error {
	return r.finish(tx, id, caller, model.Cancelled)
}

func (r *Registry) Complete(tx *ledger.Tx, id uint64, caller model.Identity) error {
	return r.finish(tx, id, caller, model.Completed)
}

// IsActive reports whether the event exists and accepts sales.
func (r *Registry) IsActive(rd ledger.Reader, id uint64) bool {
	e, ok := rd.Event(id)
	return ok && e.Status == model.Active
}

func (r *Registry) finish(tx *ledger.Tx, id uint64, caller model.Identity, status model.EventStatus) error {
	e, ok := tx.Event(id)
	if !ok || e.Status == model.DoesNotExist {
		return model.NewError(model.EventNotFound, "event %d does not exist", id)
	}
	if !access.IsEventOwner(tx, caller, id) {
		return model.NewError(model.NotOwner, "%s does not own event %d", caller, id)
	}
	if e.Status != model.Active {
		return model.NewError(model.EventNotActive, "event %d is %s", id, e.Status)
	}

	e.Status = status
	tx.PutEvent(e)
	return nil
}

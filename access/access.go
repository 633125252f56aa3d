// Package access holds the ownership guards consulted before every ledger
// mutation. Unknown ids are never owned.
package access

import (
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

func IsTicketOwner(r ledger.Reader, identity model.Identity, ticketID uint64) bool {
	t, ok := r.Ticket(ticketID)
	return ok && t.Owner == identity
}

func IsEventOwner(r ledger.Reader, identity model.Identity, eventID uint64) bool {
	e, ok := r.Event(eventID)
	return ok && e.Status != model.DoesNotExist && e.Owner == identity
}

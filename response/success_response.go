package response

import (
	"encoding/json"
	"net/http"
	"ticketing-marketplace-backend/model"
)

type SuccessResponse struct {
	Data       *Data `json:"data"`
	StatusCode int   `json:"-"`
}

type Data struct {
	Event     *model.Event    `json:"event,omitempty"`
	Events    *[]model.Event  `json:"events,omitempty"`
	Ticket    *TicketView     `json:"ticket,omitempty"`
	Tickets   *[]model.Ticket `json:"tickets,omitempty"`
	Identity  model.Identity  `json:"identity,omitempty"`
	Balance   *uint64         `json:"pending_balance,omitempty"`
	Withdrawn *uint64         `json:"withdrawn,omitempty"`
	Reference string          `json:"settlement_reference,omitempty"`
	Ledger    *LedgerTotals   `json:"ledger,omitempty"`
}

// TicketView is a ticket annotated for the caller.
type TicketView struct {
	model.Ticket
	OwnedByCaller bool `json:"owned_by_caller"`
}

type LedgerTotals struct {
	Version        uint64 `json:"version"`
	TotalReceived  uint64 `json:"total_received"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`
	TotalPending   uint64 `json:"total_pending"`
}

func (r SuccessResponse) Send(w http.ResponseWriter) {
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

package marketplace

import (
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"
)

// Command is one ledger operation. The set is closed: only this package can
// implement apply.
type Command interface {
	Operation() string
	apply(e *Engine, tx *ledger.Tx) (Result, error)
}

// Result carries what a committed command produced, if anything.
type Result struct {
	Event     *model.Event
	Ticket    *model.Ticket
	Withdrawn uint64
}

type CreateEvent struct {
	Event model.NewEvent
}

func (CreateEvent) Operation() string { return "create_event" }

func (c CreateEvent) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	ev, err := e.events.Create(tx, c.Event)
	if err != nil {
		return Result{}, err
	}
	return Result{Event: &ev}, nil
}

type CancelEvent struct {
	EventID uint64
	Caller  model.Identity
}

func (CancelEvent) Operation() string { return "cancel_event" }

func (c CancelEvent) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	return Result{}, e.events.Cancel(tx, c.EventID, c.Caller)
}

type CompleteEvent struct {
	EventID uint64
	Caller  model.Identity
}

func (CompleteEvent) Operation() string { return "complete_event" }

func (c CompleteEvent) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	return Result{}, e.events.Complete(tx, c.EventID, c.Caller)
}

type SetTicketForSale struct {
	TicketID uint64
	Caller   model.Identity
	Price    uint64
}

func (SetTicketForSale) Operation() string { return "set_ticket_for_sale" }

func (c SetTicketForSale) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	if err := e.tickets.SetForSale(tx, c.TicketID, c.Caller, c.Price); err != nil {
		return Result{}, err
	}
	return stagedTicket(e, tx, c.TicketID)
}

type RemoveTicketFromSale struct {
	TicketID uint64
	Caller   model.Identity
}

func (RemoveTicketFromSale) Operation() string { return "remove_ticket_from_sale" }

func (c RemoveTicketFromSale) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	if err := e.tickets.RemoveFromSale(tx, c.TicketID, c.Caller); err != nil {
		return Result{}, err
	}
	return stagedTicket(e, tx, c.TicketID)
}

type SendTicket struct {
	TicketID  uint64
	Caller    model.Identity
	Recipient model.Identity
}

func (SendTicket) Operation() string { return "send_ticket" }

func (c SendTicket) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	if err := e.tickets.TransferOwnership(tx, c.TicketID, c.Caller, c.Recipient); err != nil {
		return Result{}, err
	}
	return stagedTicket(e, tx, c.TicketID)
}

// stagedTicket reports the ticket as this command leaves it.
func stagedTicket(e *Engine, tx *ledger.Tx, id uint64) (Result, error) {
	t, err := e.tickets.Get(tx, id)
	if err != nil {
		return Result{}, err
	}
	return Result{Ticket: &t}, nil
}

// BuyTicket pays exactly the listed price for a listed ticket of an Active
// event. Ownership, listing flags and the seller's escrow credit commit
// together.
type BuyTicket struct {
	TicketID uint64
	Buyer    model.Identity
	Payment  uint64
}

func (BuyTicket) Operation() string { return "buy_ticket" }

func (c BuyTicket) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	t, err := e.tickets.Get(tx, c.TicketID)
	if err != nil {
		return Result{}, err
	}
	if !t.IsForSale {
		return Result{}, model.NewError(model.TicketNotForSale, "ticket %d is not for sale", t.ID)
	}
	if c.Payment != t.Price {
		return Result{}, model.NewError(model.IncorrectPayment, "ticket %d costs %d, got %d", t.ID, t.Price, c.Payment)
	}
	if !e.events.IsActive(tx, t.EventID) {
		return Result{}, model.NewError(model.EventNotActive, "event %d of ticket %d is not active", t.EventID, t.ID)
	}

	if err := e.escrow.Credit(tx, t.Owner, c.Payment); err != nil {
		return Result{}, err
	}
	t.Owner = c.Buyer
	t.IsForSale = false
	t.IsPayedFor = true
	tx.PutTicket(t)

	return Result{Ticket: &t}, nil
}

type Withdraw struct {
	Identity model.Identity
}

func (Withdraw) Operation() string { return "withdraw" }

func (c Withdraw) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	amount, err := e.escrow.Withdraw(tx, c.Identity)
	if err != nil {
		return Result{}, err
	}
	return Result{Withdrawn: amount}, nil
}

// restoreWithdrawal re-credits an amount whose payout failed.
type restoreWithdrawal struct {
	identity model.Identity
	amount   uint64
}

func (restoreWithdrawal) Operation() string { return "restore_withdrawal" }

func (c restoreWithdrawal) apply(e *Engine, tx *ledger.Tx) (Result, error) {
	e.escrow.Restore(tx, c.identity, c.amount)
	return Result{}, nil
}

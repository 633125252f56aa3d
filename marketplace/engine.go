package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"ticketing-marketplace-backend/access"
	c "ticketing-marketplace-backend/context"
	"ticketing-marketplace-backend/escrow"
	"ticketing-marketplace-backend/event"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/metrics"
	"ticketing-marketplace-backend/model"
	"ticketing-marketplace-backend/store"
	"ticketing-marketplace-backend/ticket"
	"time"
)

var (
	ErrStopped = errors.New("marketplace engine stopped")
	// ErrSettlementFailed marks a payout that failed after its balance was
	// restored.
	ErrSettlementFailed = errors.New("settlement failed")
	// ErrSettlementUnconfirmed marks a payout that was handed to the
	// settlement network but whose outcome is not known yet. The balance
	// stays withdrawn and the reference identifies the payout to reconcile.
	ErrSettlementUnconfirmed = errors.New("settlement submitted but unconfirmed")
)

// Settler pays a withdrawn amount out to identity and returns a settlement
// reference. A payout that may still complete must be reported with an error
// wrapping ErrSettlementUnconfirmed together with its reference; any other
// error means nothing was paid.
type Settler interface {
	Settle(ctx context.Context, to model.Identity, amount uint64) (string, error)
}

type request struct {
	ctx   context.Context
	cmd   Command
	reply chan reply
}

type reply struct {
	result Result
	err    error
}

// Engine serialises every ledger mutation through one goroutine. Reads are
// served concurrently from the committed state and never see a partially
// applied command.
type Engine struct {
	events  *event.Registry
	tickets *ticket.Ledger
	escrow  *escrow.Ledger
	store   store.Store
	metrics *metrics.Metrics

	// ctx outlives requests so a dequeued command always finishes.
	ctx context.Context

	mu    sync.RWMutex
	state *ledger.State

	requests chan request
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New loads the ledger from s and starts the writer. Call Close on shutdown.
func New(ctx context.Context, s store.Store, m *metrics.Metrics) (*Engine, error) {
	state, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("new: error loading ledger: %w", err)
	}

	events := event.NewRegistry()
	e := &Engine{
		events:   events,
		tickets:  ticket.NewLedger(events),
		escrow:   escrow.NewLedger(),
		store:    s,
		metrics:  m,
		ctx:      context.Background(),
		state:    state,
		requests: make(chan request),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	totals := state.Totals()
	m.SetLedger(state.Version(), totals.Received-totals.Withdrawn)

	go e.run()
	return e, nil
}

// Close stops the writer after the command in flight, if any, finishes.
func (e *Engine) Close() {
	e.stopOnce.Do(func() { close(e.quit) })
	<-e.done
}

// Execute submits cmd and waits for its outcome. ctx only bounds the wait for
// the writer; once dequeued a command runs to completion and its outcome is
// always returned, so an error means nothing changed.
func (e *Engine) Execute(ctx context.Context, cmd Command) (Result, error) {
	req := request{ctx: ctx, cmd: cmd, reply: make(chan reply, 1)}

	select {
	case e.requests <- req:
	case <-e.quit:
		return Result{}, ErrStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	r := <-req.reply
	return r.result, r.err
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			return
		case req := <-e.requests:
			res, err := e.process(req)
			req.reply <- reply{result: res, err: err}
		}
	}
}

func (e *Engine) process(req request) (Result, error) {
	start := time.Now()
	op := req.cmd.Operation()

	// Only this goroutine writes e.state, so staging reads need no lock.
	tx := ledger.Begin(e.state)
	res, err := req.cmd.apply(e, tx)
	if err != nil {
		e.metrics.ObserveOperation(op, metrics.ResultRejected, time.Since(start))
		return Result{}, err
	}

	changes := tx.Changes()
	if err := e.store.Commit(e.ctx, changes); err != nil {
		logger.Errorf(req.ctx, "process: error persisting %s at version %d: %+v", op, changes.Version, err)
		e.metrics.ObserveOperation(op, metrics.ResultFailed, time.Since(start))
		return Result{}, fmt.Errorf("process: error persisting %s: %w", op, err)
	}

	e.mu.Lock()
	e.state.Apply(changes)
	e.mu.Unlock()

	e.metrics.ObserveOperation(op, metrics.ResultCommitted, time.Since(start))
	e.metrics.SetLedger(changes.Version, changes.Totals.Received-changes.Totals.Withdrawn)
	logger.Debugf(req.ctx, "process: committed %s at version %d", op, changes.Version)
	return res, nil
}

func (e *Engine) CreateEvent(ctx context.Context, ne model.NewEvent) (model.Event, error) {
	res, err := e.Execute(ctx, CreateEvent{Event: ne})
	if err != nil {
		return model.Event{}, err
	}
	return *res.Event, nil
}

func (e *Engine) CancelEvent(ctx context.Context, eventID uint64, caller model.Identity) error {
	_, err := e.Execute(ctx, CancelEvent{EventID: eventID, Caller: caller})
	return err
}

func (e *Engine) CompleteEvent(ctx context.Context, eventID uint64, caller model.Identity) error {
	_, err := e.Execute(ctx, CompleteEvent{EventID: eventID, Caller: caller})
	return err
}

func (e *Engine) SetTicketForSale(ctx context.Context, ticketID uint64, caller model.Identity, price uint64) error {
	_, err := e.Execute(ctx, SetTicketForSale{TicketID: ticketID, Caller: caller, Price: price})
	return err
}

func (e *Engine) RemoveTicketFromSale(ctx context.Context, ticketID uint64, caller model.Identity) error {
	_, err := e.Execute(ctx, RemoveTicketFromSale{TicketID: ticketID, Caller: caller})
	return err
}

func (e *Engine) SendTicket(ctx context.Context, ticketID uint64, caller, recipient model.Identity) error {
	_, err := e.Execute(ctx, SendTicket{TicketID: ticketID, Caller: caller, Recipient: recipient})
	return err
}

func (e *Engine) BuyTicket(ctx context.Context, ticketID uint64, buyer model.Identity, payment uint64) error {
	_, err := e.Execute(ctx, BuyTicket{TicketID: ticketID, Buyer: buyer, Payment: payment})
	return err
}

func (e *Engine) Withdraw(ctx context.Context, identity model.Identity) (uint64, error) {
	res, err := e.Execute(ctx, Withdraw{Identity: identity})
	if err != nil {
		return 0, err
	}
	return res.Withdrawn, nil
}

// WithdrawAndSettle withdraws the pending balance of identity and pays it out
// through s. If the payout fails the balance is restored. An unconfirmed
// payout keeps the balance withdrawn and returns its reference with an error
// wrapping ErrSettlementUnconfirmed.
//
// Both steps run detached from ctx: a caller going away must not strand a
// withdrawn balance between the ledger and the settlement network.
func (e *Engine) WithdrawAndSettle(ctx context.Context, identity model.Identity, s Settler) (uint64, string, error) {
	ctx = c.Detach(ctx)
	amount, err := e.Withdraw(ctx, identity)
	if err != nil {
		return 0, "", err
	}

	ref, err := s.Settle(ctx, identity, amount)
	if errors.Is(err, ErrSettlementUnconfirmed) {
		logger.Errorf(ctx, "withdrawAndSettle: payout %s of %d to %s is unconfirmed, balance kept withdrawn: %+v", ref, amount, identity, err)
		return amount, ref, fmt.Errorf("withdrawAndSettle: %w", err)
	}
	if err != nil {
		if _, rerr := e.Execute(ctx, restoreWithdrawal{identity: identity, amount: amount}); rerr != nil {
			logger.Errorf(ctx, "withdrawAndSettle: lost %d for %s: settle: %+v: restore: %+v", amount, identity, err, rerr)
			return 0, "", fmt.Errorf("withdrawAndSettle: error restoring %d after failed settlement: %w", amount, rerr)
		}
		logger.Warnf(ctx, "withdrawAndSettle: payout of %d to %s failed, balance restored: %+v", amount, identity, err)
		return 0, "", fmt.Errorf("withdrawAndSettle: %v: %w", err, ErrSettlementFailed)
	}

	return amount, ref, nil
}

// GetEvent returns the event with id; ok is false and the status
// DoesNotExist for an unknown id.
func (e *Engine) GetEvent(id uint64) (model.Event, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.events.Get(e.state, id)
}

func (e *Engine) AllEvents() []model.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.events.All(e.state)
}

func (e *Engine) GetTicket(id uint64) (model.Ticket, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickets.Get(e.state, id)
}

func (e *Engine) TicketsForUser(identity model.Identity) []model.Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickets.TicketsForUser(e.state, identity)
}

func (e *Engine) TicketsForSale(eventID uint64) []model.Ticket {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickets.TicketsForSale(e.state, eventID)
}

func (e *Engine) PendingReturns(identity model.Identity) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.escrow.PendingBalance(e.state, identity)
}

func (e *Engine) IsTicketOwner(identity model.Identity, ticketID uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return access.IsTicketOwner(e.state, identity, ticketID)
}

func (e *Engine) IsEventOwner(identity model.Identity, eventID uint64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return access.IsEventOwner(e.state, identity, eventID)
}

// Totals returns the escrow totals together with the sum of pending balances,
// all from the same committed version.
func (e *Engine) Totals() (ledger.Totals, uint64, uint64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Totals(), e.state.TotalPending(), e.state.Version()
}

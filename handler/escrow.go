package handler

import (
	"errors"
	"net/http"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/model"
	"ticketing-marketplace-backend/response"

	"github.com/gorilla/mux"
)

func GetPendingReturns(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := model.Identity(mux.Vars(r)["identity"])
		balance := engine.PendingReturns(identity)
		sendOK(w, &response.Data{Identity: identity, Balance: &balance})
	}
}

// Withdraw zeroes the caller's pending balance and pays it out through
// settler. A failed payout leaves the balance in place; one still in flight
// is answered with 202 and its reference.
func Withdraw(engine *marketplace.Engine, settler marketplace.Settler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		identity := caller(ctx)

		amount, ref, err := engine.WithdrawAndSettle(ctx, identity, settler)
		if errors.Is(err, marketplace.ErrSettlementUnconfirmed) {
			send(w, http.StatusAccepted, &response.Data{Identity: identity, Withdrawn: &amount, Reference: ref})
			return
		}
		if err != nil {
			if errors.Is(err, marketplace.ErrSettlementFailed) {
				response.SettlementFailed(err.Error()).Send(ctx, w)
				return
			}
			ledgerError(ctx, w, "withdraw", err)
			return
		}

		sendOK(w, &response.Data{Identity: identity, Withdrawn: &amount, Reference: ref})
	}
}

func GetLedger(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, pending, version := engine.Totals()
		sendOK(w, &response.Data{Ledger: &response.LedgerTotals{
			Version:        version,
			TotalReceived:  totals.Received,
			TotalWithdrawn: totals.Withdrawn,
			TotalPending:   pending,
		}})
	}
}

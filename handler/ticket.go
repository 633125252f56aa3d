package handler

import (
	"net/http"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/model"
	"ticketing-marketplace-backend/response"

	"github.com/gorilla/mux"
)

// GetTicket marks whether the (optional) caller owns the ticket.
func GetTicket(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID, err := pathID(r, "ticketID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		ticket, err := engine.GetTicket(ticketID)
		if err != nil {
			ledgerError(ctx, w, "getTicket", err)
			return
		}

		view := &response.TicketView{
			Ticket:        ticket,
			OwnedByCaller: engine.IsTicketOwner(caller(ctx), ticketID),
		}
		sendOK(w, &response.Data{Ticket: view})
	}
}

func SetTicketForSale(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID, err := pathID(r, "ticketID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		var req model.SetForSaleRequest
		if !decode(w, r, "setTicketForSale", &req) {
			return
		}
		price, err := req.Validate()
		if err != nil {
			response.FromError(err).Send(ctx, w)
			return
		}

		res, err := engine.Execute(ctx, marketplace.SetTicketForSale{TicketID: ticketID, Caller: caller(ctx), Price: price})
		if err != nil {
			ledgerError(ctx, w, "setTicketForSale", err)
			return
		}
		sendTicket(w, r, res)
	}
}

func RemoveTicketFromSale(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID, err := pathID(r, "ticketID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		res, err := engine.Execute(ctx, marketplace.RemoveTicketFromSale{TicketID: ticketID, Caller: caller(ctx)})
		if err != nil {
			ledgerError(ctx, w, "removeTicketFromSale", err)
			return
		}
		sendTicket(w, r, res)
	}
}

func SendTicket(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID, err := pathID(r, "ticketID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		var req model.SendTicketRequest
		if !decode(w, r, "sendTicket", &req) {
			return
		}
		recipient, err := req.Validate()
		if err != nil {
			response.FromError(err).Send(ctx, w)
			return
		}

		res, err := engine.Execute(ctx, marketplace.SendTicket{TicketID: ticketID, Caller: caller(ctx), Recipient: recipient})
		if err != nil {
			ledgerError(ctx, w, "sendTicket", err)
			return
		}
		sendTicket(w, r, res)
	}
}

func BuyTicket(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID, err := pathID(r, "ticketID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		var req model.BuyTicketRequest
		if !decode(w, r, "buyTicket", &req) {
			return
		}
		payment, err := req.Validate()
		if err != nil {
			response.FromError(err).Send(ctx, w)
			return
		}

		res, err := engine.Execute(ctx, marketplace.BuyTicket{TicketID: ticketID, Buyer: caller(ctx), Payment: payment})
		if err != nil {
			ledgerError(ctx, w, "buyTicket", err)
			return
		}
		sendTicket(w, r, res)
	}
}

func GetTicketsForUser(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := model.Identity(mux.Vars(r)["identity"])
		tickets := engine.TicketsForUser(identity)
		sendOK(w, &response.Data{Identity: identity, Tickets: &tickets})
	}
}

// sendTicket answers a successful mutation with the ticket exactly as that
// command committed it.
func sendTicket(w http.ResponseWriter, r *http.Request, res marketplace.Result) {
	sendOK(w, &response.Data{Ticket: &response.TicketView{
		Ticket:        *res.Ticket,
		OwnedByCaller: res.Ticket.Owner == caller(r.Context()),
	}})
}

package handler

import (
	"context"
	"net/http"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/model"
	"ticketing-marketplace-backend/response"
)

func CreateEvent(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.CreateEventRequest
		if !decode(w, r, "createEvent", &req) {
			return
		}

		ne, err := req.Validate(caller(ctx))
		if err != nil {
			response.FromError(err).Send(ctx, w)
			return
		}

		event, err := engine.CreateEvent(ctx, ne)
		if err != nil {
			ledgerError(ctx, w, "createEvent", err)
			return
		}

		send(w, http.StatusCreated, &response.Data{Event: &event})
	}
}

func GetEvents(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := engine.AllEvents()
		sendOK(w, &response.Data{Events: &events})
	}
}

// GetEvent answers an unknown id with status DoesNotExist rather than 404.
func GetEvent(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "eventID")
		if err != nil {
			response.InvalidData(err.Error()).Send(r.Context(), w)
			return
		}

		event, _ := engine.GetEvent(eventID)
		sendOK(w, &response.Data{Event: &event})
	}
}

func CancelEvent(engine *marketplace.Engine) http.HandlerFunc {
	return finishEvent("cancelEvent", engine.CancelEvent, engine)
}

func CompleteEvent(engine *marketplace.Engine) http.HandlerFunc {
	return finishEvent("completeEvent", engine.CompleteEvent, engine)
}

type transition func(ctx context.Context, eventID uint64, caller model.Identity) error

func finishEvent(fn string, apply transition, engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID, err := pathID(r, "eventID")
		if err != nil {
			response.InvalidData(err.Error()).Send(ctx, w)
			return
		}

		if err := apply(ctx, eventID, caller(ctx)); err != nil {
			ledgerError(ctx, w, fn, err)
			return
		}

		event, _ := engine.GetEvent(eventID)
		sendOK(w, &response.Data{Event: &event})
	}
}

func GetTicketsForSale(engine *marketplace.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "eventID")
		if err != nil {
			response.InvalidData(err.Error()).Send(r.Context(), w)
			return
		}

		tickets := engine.TicketsForSale(eventID)
		sendOK(w, &response.Data{Tickets: &tickets})
	}
}

package router

import (
	"fmt"
	"net/http"
	"ticketing-marketplace-backend/handler"
	"ticketing-marketplace-backend/healthcheck"
	"ticketing-marketplace-backend/marketplace"
	"ticketing-marketplace-backend/middleware"
	"ticketing-marketplace-backend/response"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries what the router needs besides the engine.
type Options struct {
	Secret             string
	JWTOfflineInterval time.Duration
	Settler            marketplace.Settler
	Gatherer           prometheus.Gatherer
}

// Router returns the router for all the API handler.
func Router(engine *marketplace.Engine, opts Options) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.SetCorrelationIDHeader)
	r.Use(middleware.PanicHandler)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.ResourceNotFound(fmt.Sprintf("The requested resource was not found: path: %s, method: %s", req.URL.Path, req.Method), "The requested resource was not found!").Send(req.Context(), w)
	})

	r.Use(middleware.ResponseTimeLogging)
	r.Use(middleware.RequestLogging)

	r.HandleFunc("/healthcheck", healthcheck.Self).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	baseRouter := r.PathPrefix("/v1").Subrouter()
	baseRouter.Use(middleware.SetContentTypeHeader)
	baseRouter.Use(middleware.Identify(opts.Secret, opts.JWTOfflineInterval))
	authenticated := middleware.Authenticate(opts.Secret, opts.JWTOfflineInterval)

	baseRouter.HandleFunc("/ledger", handler.GetLedger(engine)).Methods(http.MethodGet)

	eventRouter := baseRouter.PathPrefix("/events").Subrouter()
	eventRouter.HandleFunc("", handler.GetEvents(engine)).Methods(http.MethodGet)
	eventRouter.Handle("", authenticated(handler.CreateEvent(engine))).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID:[0-9]+}", handler.GetEvent(engine)).Methods(http.MethodGet)
	eventRouter.Handle("/{eventID:[0-9]+}/cancel", authenticated(handler.CancelEvent(engine))).Methods(http.MethodPost)
	eventRouter.Handle("/{eventID:[0-9]+}/complete", authenticated(handler.CompleteEvent(engine))).Methods(http.MethodPost)
	eventRouter.HandleFunc("/{eventID:[0-9]+}/tickets/for_sale", handler.GetTicketsForSale(engine)).Methods(http.MethodGet)

	ticketRouter := baseRouter.PathPrefix("/tickets/{ticketID:[0-9]+}").Subrouter()
	ticketRouter.HandleFunc("", handler.GetTicket(engine)).Methods(http.MethodGet)
	ticketRouter.Handle("/sale", authenticated(handler.SetTicketForSale(engine))).Methods(http.MethodPost)
	ticketRouter.Handle("/sale", authenticated(handler.RemoveTicketFromSale(engine))).Methods(http.MethodDelete)
	ticketRouter.Handle("/send", authenticated(handler.SendTicket(engine))).Methods(http.MethodPost)
	ticketRouter.Handle("/buy", authenticated(handler.BuyTicket(engine))).Methods(http.MethodPost)

	baseRouter.HandleFunc("/users/{identity}/tickets", handler.GetTicketsForUser(engine)).Methods(http.MethodGet)

	escrowRouter := baseRouter.PathPrefix("/escrow").Subrouter()
	escrowRouter.Handle("/withdraw", authenticated(handler.Withdraw(engine, opts.Settler))).Methods(http.MethodPost)
	escrowRouter.HandleFunc("/{identity}", handler.GetPendingReturns(engine)).Methods(http.MethodGet)

	return r
}

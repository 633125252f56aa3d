package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	c "ticketing-marketplace-backend/context"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/model"
	"ticketing-marketplace-backend/response"

	"github.com/gorilla/mux"
)

// caller returns the identity the auth middleware attached, if any.
func caller(ctx context.Context) model.Identity {
	return model.Identity(c.GetContextValue(ctx, c.ContextKeyIdentity))
}

func pathID(r *http.Request, name string) (uint64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pathID: invalid %s: %q", name, raw)
	}
	return id, nil
}

// decode reads the JSON body into v and answers BadRequest on failure.
func decode(w http.ResponseWriter, r *http.Request, fn string, v interface{}) bool {
	ctx := r.Context()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Errorf(ctx, "%s: error unmarshalling request body: %+v", fn, err)
		response.BadRequest("invalid request body", "").Send(ctx, w)
		return false
	}
	return true
}

// ledgerError reports err, which came back from the engine, to the client.
func ledgerError(ctx context.Context, w http.ResponseWriter, fn string, err error) {
	if _, ok := model.KindOf(err); !ok {
		logger.Errorf(ctx, "%s: %+v", fn, err)
	}
	response.FromError(err).Send(ctx, w)
}

func sendOK(w http.ResponseWriter, data *response.Data) {
	send(w, http.StatusOK, data)
}

func send(w http.ResponseWriter, status int, data *response.Data) {
	response.SuccessResponse{
		Data:       data,
		StatusCode: status,
	}.Send(w)
}

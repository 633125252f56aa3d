package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"ticketing-marketplace-backend/logger"
	"ticketing-marketplace-backend/model"
)

type ErrorResponse struct {
	StatusCode  int    `json:"-"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

func (r ErrorResponse) Error() string {
	return fmt.Sprintf("StatusCode: %d, Success: %t, Message: %s, Status: %s, Description: %s", r.StatusCode, r.Success, r.Message, r.Status, r.Description)
}

func (r ErrorResponse) Send(ctx context.Context, w http.ResponseWriter) {
	logger.Errorf(ctx, r.Error())
	w.WriteHeader(r.StatusCode)
	json.NewEncoder(w).Encode(r)
}

// FromError maps a ledger error to the response for its kind. Anything else
// is reported as SomethingWrong.
func FromError(err error) ErrorResponse {
	kind, ok := model.KindOf(err)
	if !ok {
		return SomethingWrong()
	}

	r := ErrorResponse{
		Success: false,
		Message: err.Error(),
		Status:  string(kind),
	}
	switch kind {
	case model.EventNotFound, model.TicketNotFound:
		r.StatusCode = http.StatusNotFound
	case model.NotOwner:
		r.StatusCode = http.StatusForbidden
	case model.IncorrectPayment, model.InvalidRequest:
		r.StatusCode = http.StatusBadRequest
	case model.DuplicateEventID, model.DuplicateSeat, model.DuplicateTicketID,
		model.EventNotActive, model.TicketNotForSale, model.InsufficientPendingBalance:
		r.StatusCode = http.StatusConflict
	default:
		r.StatusCode = http.StatusUnprocessableEntity
	}
	return r
}

func BadRequest(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadRequest,
		Success:     false,
		Message:     message,
		Status:      "BAD REQUEST",
		Description: description,
	}
}

func ResourceNotFound(message, description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusNotFound,
		Success:     false,
		Message:     message,
		Status:      "NOT FOUND",
		Description: description,
	}
}

func Unauthorized() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Success:    false,
		Message:    "No valid Auth Token",
		Status:     "UNAUTHORISED",
	}
}

func SomethingWrong() ErrorResponse {
	return ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Success:    false,
		Message:    "Sorry, Something went wrong",
		Status:     "SOMETHING_WRONG",
	}
}

func SettlementFailed(description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadGateway,
		Success:     false,
		Message:     "Payout failed, the pending balance was kept",
		Status:      "SETTLEMENT_FAILED",
		Description: description,
	}
}

func InvalidData(description string) ErrorResponse {
	return ErrorResponse{
		StatusCode:  http.StatusBadRequest,
		Success:     false,
		Message:     "Invalid data passed",
		Status:      "INVALID_DATA",
		Description: description,
	}
}

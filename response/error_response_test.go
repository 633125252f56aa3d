package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"ticketing-marketplace-backend/model"

	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		kind model.ErrorKind
		code int
	}{
		{model.EventNotFound, http.StatusNotFound},
		{model.TicketNotFound, http.StatusNotFound},
		{model.NotOwner, http.StatusForbidden},
		{model.IncorrectPayment, http.StatusBadRequest},
		{model.InvalidRequest, http.StatusBadRequest},
		{model.DuplicateEventID, http.StatusConflict},
		{model.DuplicateSeat, http.StatusConflict},
		{model.DuplicateTicketID, http.StatusConflict},
		{model.EventNotActive, http.StatusConflict},
		{model.TicketNotForSale, http.StatusConflict},
		{model.InsufficientPendingBalance, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			r := FromError(fmt.Errorf("op: %w", model.NewError(tt.kind, "details")))
			assert.Equal(t, tt.code, r.StatusCode)
			assert.Equal(t, string(tt.kind), r.Status)
			assert.False(t, r.Success)
		})
	}
}

func TestFromErrorUnknown(t *testing.T) {
	r := FromError(errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	assert.Equal(t, "SOMETHING_WRONG", r.Status)
}

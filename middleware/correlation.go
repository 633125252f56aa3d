package middleware

import (
	"net/http"
	c "ticketing-marketplace-backend/context"
	"ticketing-marketplace-backend/logger"

	"github.com/google/uuid"
)

const correlationHeader = "Correlation-Id"

func SetCorrelationIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(correlationHeader)
		ctx := c.SetContextWithValue(r.Context(), c.ContextKeyCorrelationID, correlationID)
		if len(correlationID) == 0 {
			correlationID = uuid.New().String()
			ctx = c.SetContextWithValue(ctx, c.ContextKeyCorrelationID, correlationID)
			r.Header.Set(correlationHeader, correlationID)
			logger.Debugf(ctx, "No correlation id provided. Generated a new one")
		}
		w.Header().Set(correlationHeader, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

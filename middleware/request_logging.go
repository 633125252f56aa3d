package middleware

import (
	"net/http"
	"ticketing-marketplace-backend/logger"
)

func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf(r.Context(), "Request - %s %s, Correlation-Id: %s", r.Method, r.URL, r.Header.Get(correlationHeader))
		next.ServeHTTP(w, r)
	})
}

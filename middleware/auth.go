package middleware

import (
	"context"
	"net/http"
	"strings"
	"ticketing-marketplace-backend/auth"
	c "ticketing-marketplace-backend/context"
	"ticketing-marketplace-backend/response"
	"time"
)

// Identify stores the subject of a valid bearer token as the caller identity.
// Requests without one pass through anonymously.
func Identify(secret string, interval time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctx, ok := identify(r, secret, interval); ok {
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate rejects requests without a valid bearer token signed with
// secret.
func Authenticate(secret string, interval time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok := identify(r, secret, interval)
			if !ok {
				response.Unauthorized().Send(r.Context(), w)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identify(r *http.Request, secret string, interval time.Duration) (context.Context, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return nil, false
	}

	identity, ok := auth.VerifyToken(token, secret, interval)
	if !ok {
		return nil, false
	}
	return c.SetContextWithValue(r.Context(), c.ContextKeyIdentity, string(identity)), true
}

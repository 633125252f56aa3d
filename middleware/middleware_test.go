package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"ticketing-marketplace-backend/auth"
	c "ticketing-marketplace-backend/context"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(c.GetContextValue(r.Context(), c.ContextKeyIdentity)))
}

func TestAuthenticate(t *testing.T) {
	h := Authenticate("s3cret", time.Minute)(http.HandlerFunc(echoIdentity))

	token, err := auth.IssueToken("alice", "s3cret", time.Hour)
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())

	for _, header := range []string{"", token, "Bearer ", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestIdentifyIsOptional(t *testing.T) {
	h := Identify("s3cret", time.Minute)(http.HandlerFunc(echoIdentity))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	token, err := auth.IssueToken("bob", "s3cret", time.Hour)
	require.Nil(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "bob", rec.Body.String())
}

func TestCorrelationID(t *testing.T) {
	var seen string
	h := SetCorrelationIDHeader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = c.GetContextValue(r.Context(), c.ContextKeyCorrelationID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("Correlation-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Correlation-Id", "abc.123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc.123", seen)
}

func TestPanicHandler(t *testing.T) {
	h := PanicHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "SOMETHING_WRONG")
}

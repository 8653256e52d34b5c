package leads

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/comparenet/internal/server"
)

func newMux(limiter *server.ClientLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(NewService(Options{}, nil, nil), limiter, nil).RegisterRoutes(mux)
	return mux
}

func post(mux http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandler_Forms(t *testing.T) {
	mux := newMux(nil)
	tests := []struct {
		path   string
		body   string
		status string
	}{
		{"/api/v1/leads/reviews", `{"title":"Solid","author":"Sam","content":"No drops","rating":4}`, "success"},
		{"/api/v1/leads/newsletter", `{"email":"sam@example.com"}`, "subscribed"},
		{"/api/v1/leads/callback", `{"name":"Sam","email":"sam@example.com","phone":"021","postcode":"6011"}`, "success"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := post(mux, tt.path, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var r Receipt
			require.NoError(t, json.NewDecoder(w.Body).Decode(&r))
			assert.Equal(t, tt.status, r.Status)
			assert.NotEmpty(t, r.ID)
		})
	}
}

func TestHandler_Invalid(t *testing.T) {
	mux := newMux(nil)

	w := post(mux, "/api/v1/leads/newsletter", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var p server.Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, server.ProblemTypeValidation, p.Type)
	assert.Contains(t, p.Fields, "email")

	w = post(mux, "/api/v1/leads/callback", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RateLimited(t *testing.T) {
	mux := newMux(server.NewClientLimiter(1, 1))

	w := post(mux, "/api/v1/leads/newsletter", `{"email":"a@b.co"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post(mux, "/api/v1/leads/newsletter", `{"email":"a@b.co"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

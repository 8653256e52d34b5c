package compare

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/metrics"
	"github.com/HerbHall/comparenet/internal/services"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
)

type client struct {
	t      *testing.T
	mux    *http.ServeMux
	cookie *http.Cookie
}

func newClient(t *testing.T, repo services.StateRepository) *client {
	t.Helper()
	h := NewHandler(pkgcatalog.NewCatalog(), repo, Options{}, metrics.New(), zap.NewNop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return &client{t: t, mux: mux}
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if c.cookie != nil {
		r.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.mux.ServeHTTP(w, r)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == DefaultCookieName {
			c.cookie = ck
		}
	}
	return w
}

func decodeSet(t *testing.T, w *httptest.ResponseRecorder) SetResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SetResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHandler_IssuesSessionCookie(t *testing.T) {
	c := newClient(t, services.NewMemoryStateRepository())

	resp := decodeSet(t, c.do(http.MethodGet, "/api/v1/compare", ""))
	assert.Equal(t, []int{}, resp.IDs)
	assert.Equal(t, StateEmpty, resp.State)
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)

	first := c.cookie.Value
	c.do(http.MethodGet, "/api/v1/compare", "")
	assert.Equal(t, first, c.cookie.Value, "existing session should be kept")
}

func TestHandler_ToggleRemoveClear(t *testing.T) {
	repo := services.NewMemoryStateRepository()
	c := newClient(t, repo)

	resp := decodeSet(t, c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":5}`))
	require.NotNil(t, resp.Selected)
	assert.True(t, *resp.Selected)

	resp = decodeSet(t, c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":3}`))
	assert.Equal(t, []int{5, 3}, resp.IDs)
	assert.Equal(t, StateReady, resp.State)
	// Items follow catalog order, not selection order.
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Items[0].ID)
	assert.Equal(t, 5, resp.Items[1].ID)

	resp = decodeSet(t, c.do(http.MethodDelete, "/api/v1/compare/5", ""))
	assert.Equal(t, []int{3}, resp.IDs)

	resp = decodeSet(t, c.do(http.MethodDelete, "/api/v1/compare", ""))
	assert.Equal(t, []int{}, resp.IDs)

	e, err := repo.Get(t.Context(), c.cookie.Value, DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", e.Value)
}

func TestHandler_ToggleRejects(t *testing.T) {
	c := newClient(t, services.NewMemoryStateRepository())

	for _, body := range []string{`{"id":999}`, `not json`} {
		w := c.do(http.MethodPost, "/api/v1/compare/toggle", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodDelete, "/api/v1/compare/abc", "").Code)
}

func TestHandler_ToggleRemovesStaleID(t *testing.T) {
	repo := services.NewMemoryStateRepository()
	c := newClient(t, repo)
	c.do(http.MethodGet, "/api/v1/compare", "")
	require.NoError(t, repo.Put(t.Context(), c.cookie.Value, DefaultStorageKey, "[999,1]"))

	resp := decodeSet(t, c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":999}`))
	require.NotNil(t, resp.Selected)
	assert.False(t, *resp.Selected)
	assert.Equal(t, []int{1}, resp.IDs)

	e, err := repo.Get(t.Context(), c.cookie.Value, DefaultStorageKey)
	require.NoError(t, err)
	assert.Equal(t, "[1]", e.Value)

	// Adding it back is still rejected.
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":999}`).Code)
}

func TestHandler_CorruptStateIsEmpty(t *testing.T) {
	repo := services.NewMemoryStateRepository()
	c := newClient(t, repo)
	c.do(http.MethodGet, "/api/v1/compare", "")

	require.NoError(t, repo.Put(t.Context(), c.cookie.Value, DefaultStorageKey, "[[garbage"))

	resp := decodeSet(t, c.do(http.MethodGet, "/api/v1/compare", ""))
	assert.Equal(t, []int{}, resp.IDs)
}

func TestHandler_FullAndExport(t *testing.T) {
	c := newClient(t, services.NewMemoryStateRepository())
	c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":2}`)

	w := c.do(http.MethodGet, "/api/v1/compare/full", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cmp Comparison
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cmp))
	assert.Equal(t, StatusSelectMore, cmp.Status)
	assert.Equal(t, 1, cmp.Needed)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/compare/export.csv", "").Code)

	c.do(http.MethodPost, "/api/v1/compare/toggle", `{"id":4}`)

	w = c.do(http.MethodGet, "/api/v1/compare/full", "")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&cmp))
	assert.Equal(t, StatusReady, cmp.Status)
	require.Len(t, cmp.Plans, 2)

	w = c.do(http.MethodGet, "/api/v1/compare/export.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "FastNet NZ Unlimited Fibre 300")
	assert.Contains(t, w.Body.String(), "ConnectPro Fibre 900 Pro")
}

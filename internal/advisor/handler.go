package advisor

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/HerbHall/comparenet/internal/server"
)

// Handler serves the speed advisor tool.
type Handler struct{}

// NewHandler creates a speed advisor handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tools/speed", h.handleSpeed)
}

// handleSpeed estimates the speed a household needs. Missing parameters take
// the calculator defaults.
func (h *Handler) handleSpeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	u := DefaultUsage
	bad := map[string]string{}
	for _, f := range []struct {
		param string
		field string
		dst   *int
	}{
		{"streaming", "streaming_hours", &u.StreamingHours},
		{"gaming", "gaming_hours", &u.GamingHours},
		{"work", "work_hours", &u.WorkHours},
		{"devices", "devices", &u.Devices},
	} {
		if err := parseInto(q, f.param, f.dst); err != nil {
			bad[f.field] = "must be an integer"
		}
	}
	if len(bad) > 0 {
		server.ValidationFailed(w, bad, r.URL.Path)
		return
	}

	rec, err := Recommend(u)
	var verr *ValidationError
	if errors.As(err, &verr) {
		server.ValidationFailed(w, verr.Fields, r.URL.Path)
		return
	}
	if err != nil {
		server.InternalError(w, err.Error(), r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, rec)
}

func parseInto(q url.Values, key string, dst *int) error {
	s := q.Get(key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

package compare

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/metrics"
	"github.com/HerbHall/comparenet/internal/server"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

// DefaultCookieName is the session cookie that scopes compare storage.
const DefaultCookieName = "comparenet_session"

// Options configures the compare handler. Zero values use defaults.
type Options struct {
	StorageKey   string
	CookieName   string
	CookieMaxAge time.Duration
	SecureCookie bool
}

// SetResponse is returned by every compare set endpoint.
type SetResponse struct {
	IDs      []int                    `json:"ids"`
	State    State                    `json:"state"`
	Items    []models.ComparePlanItem `json:"items"`
	Selected *bool                    `json:"selected,omitempty"`
}

type toggleRequest struct {
	ID int `json:"id"`
}

// Handler serves the compare set API.
type Handler struct {
	catalog *pkgcatalog.Catalog
	storage Storage
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a compare handler persisting to storage.
func NewHandler(cat *pkgcatalog.Catalog, storage Storage, opts Options, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.CookieMaxAge <= 0 {
		opts.CookieMaxAge = 30 * 24 * time.Hour
	}
	return &Handler{catalog: cat, storage: storage, opts: opts, metrics: m, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/compare", h.handleGet)
	mux.HandleFunc("POST /api/v1/compare/toggle", h.handleToggle)
	mux.HandleFunc("DELETE /api/v1/compare/{id}", h.handleRemove)
	mux.HandleFunc("DELETE /api/v1/compare", h.handleClear)
	mux.HandleFunc("GET /api/v1/compare/full", h.handleFull)
	mux.HandleFunc("GET /api/v1/compare/export.csv", h.handleExport)
}

// session returns the visitor's session ID, issuing a new cookie when the
// request carries none or a malformed one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.opts.CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.opts.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) *Set {
	slot := NewSlot(h.storage, h.session(w, r), h.opts.StorageKey, h.logger)
	return Restore(r.Context(), slot)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, set *Set, selected *bool) {
	plans, err := h.catalog.Plans()
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, SetResponse{
		IDs:      set.IDs(),
		State:    set.State(),
		Items:    Items(plans, set.IDs()),
		Selected: selected,
	})
}

func (h *Handler) saveFailed(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("failed to persist compare set", zap.String("op", op), zap.Error(err))
	server.InternalError(w, "failed to save compare set", r.URL.Path)
}

// handleGet returns the compare tray.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.restore(w, r), nil)
}

// handleToggle adds or removes a plan from the compare set.
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	set := h.restore(w, r)
	// Only additions need a catalog entry; a stale ID must stay removable.
	if !set.Contains(req.ID) {
		if err := h.checkPlan(req.ID); err != nil {
			if errors.Is(err, ErrUnknownPlan) {
				server.BadRequest(w, err.Error(), r.URL.Path)
				return
			}
			h.logger.Error("failed to load catalog", zap.Error(err))
			server.InternalError(w, "failed to load catalog", r.URL.Path)
			return
		}
	}

	selected, err := set.Toggle(r.Context(), req.ID)
	if err != nil {
		h.saveFailed(w, r, "toggle", err)
		return
	}
	h.metrics.CompareMutation("toggle")
	h.logger.Debug("compare set toggled", zap.Int("plan_id", req.ID), zap.Bool("selected", selected))
	h.respond(w, r, set, &selected)
}

// handleRemove removes a plan from the compare set. Unknown IDs are a no-op.
func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		server.BadRequest(w, "plan id must be an integer", r.URL.Path)
		return
	}

	set := h.restore(w, r)
	if err := set.Remove(r.Context(), id); err != nil {
		h.saveFailed(w, r, "remove", err)
		return
	}
	h.metrics.CompareMutation("remove")
	h.respond(w, r, set, nil)
}

// handleClear empties the compare set.
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	set := h.restore(w, r)
	if err := set.Clear(r.Context()); err != nil {
		h.saveFailed(w, r, "clear", err)
		return
	}
	h.metrics.CompareMutation("clear")
	h.respond(w, r, set, nil)
}

// handleFull returns the side-by-side comparison, or a select_more payload
// when fewer than two selected plans resolve.
func (h *Handler) handleFull(w http.ResponseWriter, r *http.Request) {
	c, err := h.comparison(w, r)
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, c)
}

// handleExport streams the full comparison as CSV.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	c, err := h.comparison(w, r)
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	if c.Status != StatusReady {
		server.BadRequest(w, c.Message, r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison.csv"`)
	if err := WriteCSV(w, c); err != nil {
		h.logger.Warn("csv export interrupted", zap.Error(err))
	}
}

func (h *Handler) comparison(w http.ResponseWriter, r *http.Request) (Comparison, error) {
	plans, err := h.catalog.Plans()
	if err != nil {
		return Comparison{}, err
	}
	return Full(plans, h.restore(w, r).IDs()), nil
}

func (h *Handler) checkPlan(id int) error {
	_, ok, err := h.catalog.Plan(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("plan %d: %w", id, ErrUnknownPlan)
	}
	return nil
}

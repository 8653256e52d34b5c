package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/HerbHall/comparenet/internal/metrics"
	"github.com/HerbHall/comparenet/internal/server"
	"github.com/HerbHall/comparenet/pkg/models"
	"go.uber.org/zap"
)

// CountsResponse is the response for GET /api/v1/plans/counts.
type CountsResponse struct {
	Filters Filters `json:"filters"`
	Total   int     `json:"total"`
	Counts  Counts  `json:"counts"`
}

// Handler serves the plan, provider and deal APIs.
type Handler struct {
	engine   *Engine
	pageSize int
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, pageSize int, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Handler{engine: engine, pageSize: pageSize, metrics: m, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/plans", h.handleSearch)
	mux.HandleFunc("GET /api/v1/plans/counts", h.handleCounts)
	mux.HandleFunc("GET /api/v1/plans/{id}", h.handleGetPlan)
	mux.HandleFunc("GET /api/v1/providers", h.handleListProviders)
	mux.HandleFunc("GET /api/v1/providers/{slug}", h.handleGetProvider)
	mux.HandleFunc("GET /api/v1/deals", h.handleListDeals)
}

// handleSearch returns one page of filtered, sorted plans.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	view, err := ParseViewState(r.URL.Query(), h.pageSize)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	result, err := h.engine.Search(view)
	if errors.Is(err, ErrPageOutOfRange) {
		server.BadRequest(w, "page "+strconv.Itoa(view.Page)+" is out of range", r.URL.Path)
		return
	}
	if err != nil {
		h.logger.Error("failed to search plans", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	label := string(view.Sort)
	if !view.Sort.Known() {
		label = "unknown"
	}
	h.metrics.ObserveSearch(label, result.Total)
	server.WriteJSON(w, http.StatusOK, result)
}

// handleCounts returns prospective counts for the sidebar filter options.
func (h *Handler) handleCounts(w http.ResponseWriter, r *http.Request) {
	view, err := ParseViewState(r.URL.Query(), h.pageSize)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	counts, err := h.engine.Counts(view.Filters)
	if err != nil {
		h.logger.Error("failed to compute counts", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	current, err := h.engine.Results(view.Filters, view.Sort)
	if err != nil {
		h.logger.Error("failed to compute counts", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	server.WriteJSON(w, http.StatusOK, CountsResponse{
		Filters: view.Filters,
		Total:   len(current),
		Counts:  counts,
	})
}

// handleGetPlan returns a single plan.
func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		server.BadRequest(w, "plan id must be an integer", r.URL.Path)
		return
	}

	plan, err := h.engine.Plan(id)
	if errors.Is(err, ErrNotFound) {
		server.NotFound(w, "plan "+strconv.Itoa(id)+" not found", r.URL.Path)
		return
	}
	if err != nil {
		h.logger.Error("failed to load plan", zap.Int("plan_id", id), zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	server.WriteJSON(w, http.StatusOK, plan)
}

// handleListProviders returns providers filtered by connection type.
func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := ProviderSortKey(q.Get("sort"))
	if key == "" {
		key = ProviderSortRating
	}

	listing, err := h.engine.Providers(models.ConnectionType(q.Get("connectionType")), key)
	if err != nil {
		h.logger.Error("failed to list providers", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	server.WriteJSON(w, http.StatusOK, listing)
}

// handleGetProvider returns a provider and its plans.
func (h *Handler) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	detail, err := h.engine.Provider(slug)
	if errors.Is(err, ErrNotFound) {
		server.NotFound(w, "provider "+slug+" not found", r.URL.Path)
		return
	}
	if err != nil {
		h.logger.Error("failed to load provider", zap.String("slug", slug), zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}

	server.WriteJSON(w, http.StatusOK, detail)
}

// handleListDeals returns the current promotional deals.
func (h *Handler) handleListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.engine.Catalog().Deals()
	if err != nil {
		h.logger.Error("failed to load deals", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return
	}
	if deals == nil {
		deals = []models.Deal{}
	}
	server.WriteJSON(w, http.StatusOK, deals)
}

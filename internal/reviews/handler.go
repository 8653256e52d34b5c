package reviews

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/server"
	pkgcatalog "github.com/HerbHall/comparenet/pkg/catalog"
	"github.com/HerbHall/comparenet/pkg/models"
)

// ListResponse is the response for GET /api/v1/reviews.
type ListResponse struct {
	Query     Query           `json:"query"`
	Providers []string        `json:"providers"`
	Summary   Summary         `json:"summary"`
	Reviews   []models.Review `json:"reviews"`
}

// Handler serves the review browse API.
type Handler struct {
	catalog *pkgcatalog.Catalog
	logger  *zap.Logger
}

// NewHandler creates a review handler over the embedded catalog.
func NewHandler(cat *pkgcatalog.Catalog, logger *zap.Logger) *Handler {
	return &Handler{catalog: cat, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/reviews", h.handleList)
}

// handleList searches and sorts reviews.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := Query{
		Text:     params.Get("q"),
		Provider: params.Get("provider"),
		Sort:     SortKey(params.Get("sort")),
	}
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	if s := params.Get("rating"); s != "" && s != "all" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			server.BadRequest(w, "rating must be between 1 and 5", r.URL.Path)
			return
		}
		q.Rating = n
	}

	all, err := h.catalog.Reviews()
	if err != nil {
		h.logger.Error("failed to load reviews", zap.Error(err))
		server.InternalError(w, "failed to load reviews", r.URL.Path)
		return
	}

	list := Browse(all, q)
	server.WriteJSON(w, http.StatusOK, ListResponse{
		Query:     q,
		Providers: Providers(all),
		Summary:   Summarize(list),
		Reviews:   list,
	})
}

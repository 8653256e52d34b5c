package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/HerbHall/comparenet/internal/server"
)

const maxFormBytes = 16 << 10

// Handler serves the lead form endpoints.
type Handler struct {
	svc     *Service
	limiter *server.ClientLimiter
	logger  *zap.Logger
}

// NewHandler creates a lead form handler. A nil limiter disables rate
// limiting.
func NewHandler(svc *Service, limiter *server.ClientLimiter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, limiter: limiter, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/leads/reviews", h.limit(h.formHandler(func() Form { return &ReviewForm{} })))
	mux.Handle("POST /api/v1/leads/newsletter", h.limit(h.formHandler(func() Form { return &NewsletterForm{} })))
	mux.Handle("POST /api/v1/leads/callback", h.limit(h.formHandler(func() Form { return &CallbackForm{} })))
}

func (h *Handler) limit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(next)
}

// formHandler decodes a JSON body into a fresh form and submits it.
func (h *Handler) formHandler(newForm func() Form) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := newForm()
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(f); err != nil {
			server.BadRequest(w, "invalid request body", r.URL.Path)
			return
		}

		receipt, err := h.svc.Submit(r.Context(), f)
		if fields, ok := IsValidation(err); ok {
			server.ValidationFailed(w, fields, r.URL.Path)
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Debug("lead submission abandoned", zap.String("form", string(f.Kind())), zap.Error(err))
			return
		}
		if err != nil {
			h.logger.Error("lead submission failed", zap.String("form", string(f.Kind())), zap.Error(err))
			server.InternalError(w, "failed to submit form", r.URL.Path)
			return
		}
		server.WriteJSON(w, http.StatusOK, receipt)
	})
}

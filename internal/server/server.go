// Package server assembles the comparenet HTTP server: core routes, feature
// route registrars and the shared middleware stack.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/comparenet/internal/metrics"
	"github.com/HerbHall/comparenet/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by feature handlers that mount routes on the
// shared mux.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options tunes the underlying http.Server. Zero values use defaults.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the main comparenet server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	metrics    *metrics.Metrics
	mux        *http.ServeMux
}

// New creates a new Server instance listening on addr.
func New(addr string, opts Options, logger *zap.Logger, m *metrics.Metrics, registrars ...RouteRegistrar) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  orDefault(opts.ReadTimeout, 15*time.Second),
			WriteTimeout: orDefault(opts.WriteTimeout, 15*time.Second),
			IdleTimeout:  orDefault(opts.IdleTimeout, 60*time.Second),
		},
		logger:  logger,
		metrics: m,
		mux:     mux,
	}

	s.registerCoreRoutes()
	for _, r := range registrars {
		r.RegisterRoutes(mux)
	}
	s.httpServer.Handler = s.routes()

	return s
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// routes wraps the feature mux in the middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.InstrumentHandler)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Mount("/", s.mux)
	return r
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// healthResponse is the body of GET /api/v1/health.
type healthResponse struct {
	Status  string        `json:"status"`
	Service string        `json:"service"`
	Version version.Build `json:"version"`
}

// handleHealth reports liveness and the running build.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	b := version.Current()
	w.Header().Set("X-Comparenet-Version", b.Version)
	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "comparenet", Version: b})
}

// requestLogger logs each request at debug level with its request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

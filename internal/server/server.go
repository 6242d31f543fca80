// Package server is the HTTP view of the dashboard.
//
// Each browser session (cookie "orbitdash_session") owns a dashboard
// coordinator and an SVG canvas. The HTML page posts forms back to the JSON
// API routes and is redirected to "/"; other clients receive the new frame
// as JSON. Prometheus metrics are served at /metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/orbitdash/pkg/observability/prom"
	"github.com/matzehuels/orbitdash/pkg/session"
)

// CookieName holds the session uuid.
const CookieName = "orbitdash_session"

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	// Metrics, when set, records request counts and latency.
	Metrics *prom.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// SweepInterval is how often expired sessions are removed.
	SweepInterval time.Duration
}

// Server routes HTTP requests to per-session dashboards.
type Server struct {
	store   *session.Store
	logger  *log.Logger
	metrics *prom.Metrics
	sweep   time.Duration
	router  chi.Router
}

// New builds the router.
func New(store *session.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	s := &Server{
		store:   store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		sweep:   opts.SweepInterval,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.Get("/charts/{name}.svg", s.handleChart)

		r.Route("/api", func(r chi.Router) {
			r.Get("/frame", s.handleFrame)
			r.Get("/facets/{dim}", s.handleFacets)
			r.Get("/hover/{year}", s.handleHover)

			r.Post("/selection/{dim}/toggle", s.handleToggle)
			r.Post("/selection/{dim}/clear", s.handleClear)
			r.Post("/selection/{dim}/select-all", s.handleSelectAll)
			r.Post("/clear", s.handleClearAll)
			r.Post("/mode/{mode}", s.handleMode)
			r.Post("/focus", s.handleFocus)
			r.Post("/focus/{year}", s.handleFocus)
			r.Post("/resize", s.handleResize)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and drops every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.store.Run(ctx, s.sweep)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.store.Close()
	s.logger.Info("server stopped")
	return err
}

// logRequests logs every request and feeds the request metrics.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(r.Method, route, status, d)
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

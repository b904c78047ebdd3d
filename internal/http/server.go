// Package http exposes the expense API over chi.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"spendlog/internal/auth"
	"spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/store"
)

// Options configures the server surface.
type Options struct {
	Addr           string
	AllowedOrigins []string

	// SimulatedLatency delays list and total responses to exercise
	// client loading states. Zero disables it.
	SimulatedLatency time.Duration
}

// Server serves the expense API. It embeds http.Server so callers use
// ListenAndServe directly.
type Server struct {
	http.Server

	store  store.Store
	auth   *auth.Authenticator
	logger *log.Logger

	limiter    *ratelimit.Limiter
	simLatency time.Duration

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server.
func NewServer(opts Options, st store.Store, authn *auth.Authenticator, logger *log.Logger) *Server {
	s := &Server{
		store:      st,
		auth:       authn,
		logger:     logger.WithComponent(log.ComponentHTTP),
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		simLatency: opts.SimulatedLatency,
	}

	s.Server = http.Server{
		Addr:         opts.Addr,
		Handler:      s.routes(opts),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	tracer := trace.NewMiddleware(security.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r.Use(tracer.Middleware)
	r.Use(headers.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.limiter.Middleware(security.ExtractClientIP, s.handleRateLimited))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Route("/expenses", func(r chi.Router) {
		r.Use(s.auth.Middleware(s.handleUnauthorized))

		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleCreateExpense)
		// Registered before the id pattern so "total" never parses as
		// an id; the digits-only constraint keeps it unambiguous
		// either way.
		r.Get("/total", s.handleTotalAmount)
		r.Get("/{id:[0-9]+}", s.handleGetExpense)
		r.Delete("/{id:[0-9]+}", s.handleDeleteExpense)
	})

	return r
}

func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// simulateLatency sleeps for the configured delay, honoring request
// cancellation.
func (s *Server) simulateLatency(ctx context.Context) {
	if s.simLatency <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(s.simLatency):
	}
}

// Shutdown stops the listener and the background middleware state.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davidbz/greeter/internal/config"
	"github.com/davidbz/greeter/internal/http/middleware"
	"github.com/davidbz/greeter/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	handler     *Handler
	middlewares middleware.Middleware
	metrics     *observability.Metrics

	mu  sync.Mutex
	srv *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	middlewares middleware.Middleware,
	metrics *observability.Metrics,
) *Server {
	return &Server{
		config:      *cfg,
		handler:     handler,
		middlewares: middlewares,
		metrics:     metrics,
		mu:          sync.Mutex{},
		srv:         nil,
	}
}

// Routes builds the router with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	if s.middlewares != nil {
		router.Use(s.middlewares)
	}

	// Register routes.
	router.Get("/", s.handler.HandleIndex)
	router.Get("/favicon.ico", s.handler.HandleFavicon)
	router.Post("/hello", s.handler.HandleHello)
	router.Get("/health", s.handler.HandleHealth)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	// Create server with timeouts.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Routes(),
		ReadTimeout:       time.Duration(s.config.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.config.WriteTimeout) * time.Second,
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// Package api exposes the teaser orchestrator and dispatch job over HTTP.
// This is a thin pass-through surface; the GraphQL gateway in front of it
// owns auth and schema concerns.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration
type Config struct {
	Port int
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	listener   net.Listener
}

// NewServer creates a new HTTP server and mounts the teaser and
// subscription routes.
func NewServer(cfg *Config, teasers *TeasersHandler, sparks *SparksHandler) *Server {
	router := chi.NewRouter()

	srv := &Server{
		router: router,
		config: cfg,
	}

	srv.setupMiddleware()
	srv.setupRoutes(teasers, sparks)

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// basic cors for the gateway / frontend
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
}

func (s *Server) setupRoutes(teasers *TeasersHandler, sparks *SparksHandler) {
	// Health endpoint
	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sparks/{id}/teasers", teasers.CreateBatch)
		r.Put("/sparks/{id}/subscribers/{userID}", sparks.Subscribe)
		r.Delete("/sparks/{id}/subscribers/{userID}", sparks.Unsubscribe)

		r.Route("/teasers", func(r chi.Router) {
			r.Post("/", teasers.Create)
			r.Get("/", teasers.List)
			r.Get("/{id}", teasers.GetByID)
			r.Patch("/{id}", teasers.Update)
			r.Delete("/{id}", teasers.Delete)
		})

		// manual tick, useful for operators and smoke tests
		r.Post("/dispatch/run", teasers.RunDispatch)
	})
}

// Router returns the underlying handler, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}

// Package web exposes the face orchestrator and the user profile command
// handler over HTTP.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/face-orchestrator/internal/config"
	"github.com/kozaktomas/face-orchestrator/internal/constants"
	"github.com/kozaktomas/face-orchestrator/internal/web/handlers"
	"github.com/kozaktomas/face-orchestrator/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config       *config.Config
	router       *chi.Mux
	httpServer   *http.Server
	orchestrator handlers.FaceOrchestrator
	profiles     handlers.ProfileCommands
}

// NewServer creates a new web server. profiles may be nil when no profile
// store is configured; its routes then answer 503.
func NewServer(cfg *config.Config, orch handlers.FaceOrchestrator, profiles handlers.ProfileCommands, port int, host string) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:       cfg,
		router:       r,
		orchestrator: orch,
		profiles:     profiles,
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(constants.RequestTimeout))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: constants.RequestTimeout + 10*time.Second, // batch loads run up to RequestTimeout
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}

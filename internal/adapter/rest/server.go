// Package rest exposes the recalculation and snapshot operations over HTTP.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jepargne/patrimoine-backend/internal/domain"
)

// Recalculator drives recalculation of one profile or all of them.
type Recalculator interface {
	Recalculate(ctx context.Context, profileID uuid.UUID, force bool) (*domain.WealthSnapshot, error)
	RecalculateAll(ctx context.Context, force bool) error
}

// Server is the HTTP API surface. Everything under /api requires the bearer
// token; /health stays open for liveness checks.
type Server struct {
	httpServer *http.Server
	profiles   domain.ProfileRepository
	recalc     Recalculator
	apiToken   string
	log        zerolog.Logger
}

// NewServer creates an HTTP server bound to addr.
func NewServer(addr string, profiles domain.ProfileRepository, recalc Recalculator, apiToken string, log zerolog.Logger) *Server {
	s := &Server{
		profiles: profiles,
		recalc:   recalc,
		apiToken: apiToken,
		log:      log.With().Str("component", "http-server").Logger(),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Router builds the route tree. Exposed for handler tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Use(BearerAuth(s.apiToken))

		api.Get("/crypto/symbols", s.handleCryptoSymbols)
		api.Post("/recalculate", s.handleRecalculateAll)

		api.Route("/profiles/{profileID}", func(pr chi.Router) {
			pr.Post("/recalculate", s.handleRecalculateProfile)
			pr.Get("/snapshot", s.handleSnapshot)
		})
	})

	return r
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

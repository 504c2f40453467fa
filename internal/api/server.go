// Package api provides the HTTP API server and handlers for the Chronicle application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
	"github.com/cardchronicle/chronicle-server/internal/ratelimit"
	"github.com/cardchronicle/chronicle-server/internal/service"
	"github.com/cardchronicle/chronicle-server/internal/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	cardService        *service.CardService
	diaryService       *service.DiaryService
	collectionService  *service.CollectionService
	favoriteService    *service.FavoriteService
	entitlementService *service.EntitlementService
	events             *sse.Manager
	sseHandler         *sse.Handler
	shareLimiter       *ratelimit.KeyedRateLimiter
	router             *chi.Mux
	logger             *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cardService *service.CardService,
	diaryService *service.DiaryService,
	collectionService *service.CollectionService,
	favoriteService *service.FavoriteService,
	entitlementService *service.EntitlementService,
	events *sse.Manager,
	sseHandler *sse.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cardService:        cardService,
		diaryService:       diaryService,
		collectionService:  collectionService,
		favoriteService:    favoriteService,
		entitlementService: entitlementService,
		events:             events,
		sseHandler:         sseHandler,
		shareLimiter:       ratelimit.New(1, 3),
		router:             chi.NewRouter(),
		logger:             logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// The mobile app talks to the server from arbitrary local addresses.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Card catalog (read-only).
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleListCards)
			r.Get("/{id}", s.handleGetCard)
		})
		r.Get("/sets", s.handleListSets)
		r.Post("/catalog/refresh", s.handleRefreshCatalog)

		// Diary entries and their images.
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", s.handleCreateEntry)
			r.Get("/", s.handleListEntries)
			r.Get("/{id}", s.handleGetEntry)
			r.Put("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
			r.Post("/{id}/images", s.handleAddEntryImage)
			r.Get("/{id}/images/{imageID}", s.handleGetEntryImage)
			r.Delete("/{id}/images/{imageID}", s.handleDeleteEntryImage)
		})

		// Favorites.
		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", s.handleListFavorites)
			r.Post("/{cardID}/toggle", s.handleToggleFavorite)
		})

		// Collections.
		r.Route("/collections", func(r chi.Router) {
			r.Post("/", s.handleCreateCollection)
			r.Get("/", s.handleListCollections)
			r.Get("/{id}", s.handleGetCollection)
			r.Put("/{id}", s.handleUpdateCollection)
			r.Delete("/{id}", s.handleDeleteCollection)
			r.Post("/{id}/cards", s.handleAddCardToCollection)
			r.Delete("/{id}/cards/{cardID}", s.handleRemoveCardFromCollection)
			r.With(s.limitShares).Post("/{id}/share", s.handleShareCollection)
		})

		// Entitlements.
		r.Route("/entitlements", func(r chi.Router) {
			r.Get("/", s.handleGetEntitlements)
			r.Post("/unlock", s.handleUnlockEntitlements)
		})

		// Change stream.
		r.Get("/events", s.sseHandler.ServeHTTP)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

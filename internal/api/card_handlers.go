package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
	"github.com/cardchronicle/chronicle-server/internal/service"
	"github.com/cardchronicle/chronicle-server/internal/sse"
)

// handleListCards returns catalog cards, optionally filtered by set,
// name substring, or diary membership.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.CardFilter{
		SetID:     q.Get("set_id"),
		Search:    q.Get("search"),
		DiaryOnly: q.Get("diary_only") == "true",
	}

	cards, err := s.cardService.ListCards(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"cards": cards,
		"total": len(cards),
	}, s.logger)
}

// handleGetCard returns a single card with its diary context.
func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Card ID is required", s.logger)
		return
	}

	card, err := s.cardService.GetCard(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, card, s.logger)
}

// handleListSets returns all card sets, newest first.
func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets := s.cardService.ListSets(r.Context())

	response.Success(w, map[string]any{
		"sets":  sets,
		"total": len(sets),
	}, s.logger)
}

// handleRefreshCatalog forces a catalog re-fetch from upstream.
func (s *Server) handleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.cardService.RefreshCatalog(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.events.Emit(sse.NewCatalogRefreshedEvent())

	response.Success(w, map[string]string{
		"message": "Catalog refreshed successfully",
	}, s.logger)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
)

// handleListFavorites returns all favorited cards, newest first.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.favoriteService.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"favorites": favorites,
		"total":     len(favorites),
	}, s.logger)
}

// handleToggleFavorite flips a card's favorite state and returns the
// new state.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, "Card ID is required", s.logger)
		return
	}

	favorited, err := s.favoriteService.Toggle(r.Context(), cardID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"card_id":   cardID,
		"favorited": favorited,
	}, s.logger)
}

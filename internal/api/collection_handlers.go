package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
	"github.com/cardchronicle/chronicle-server/internal/query"
	"github.com/cardchronicle/chronicle-server/internal/service"
)

// AddCardRequest represents the request body for adding a card to a collection.
type AddCardRequest struct {
	CardID string `json:"card_id"`
}

// handleCreateCollection creates a new collection.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var input service.CollectionInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	collection, err := s.collectionService.CreateCollection(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, collection, s.logger)
}

// handleListCollections returns all collections, oldest first.
func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.collectionService.ListCollections(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"collections": collections,
		"total":       len(collections),
	}, s.logger)
}

// handleGetCollection returns a collection with its resolved cards.
// The sort query parameter orders the cards (default: date_desc).
func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Collection ID is required", s.logger)
		return
	}

	mode := query.ParseSortMode(r.URL.Query().Get("sort"))

	collection, err := s.collectionService.GetCollection(r.Context(), id, mode)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collection, s.logger)
}

// handleUpdateCollection updates a collection's name and description.
func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Collection ID is required", s.logger)
		return
	}

	var input service.CollectionInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	collection, err := s.collectionService.UpdateCollection(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collection, s.logger)
}

// handleDeleteCollection deletes a collection.
func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Collection ID is required", s.logger)
		return
	}

	if err := s.collectionService.DeleteCollection(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAddCardToCollection adds a card to a collection.
// Adding a card that is already present is a no-op.
func (s *Server) handleAddCardToCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Collection ID is required", s.logger)
		return
	}

	var req AddCardRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	collection, err := s.collectionService.AddCard(r.Context(), id, req.CardID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collection, s.logger)
}

// handleRemoveCardFromCollection removes a card from a collection.
func (s *Server) handleRemoveCardFromCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cardID := chi.URLParam(r, "cardID")
	if id == "" || cardID == "" {
		response.BadRequest(w, "Collection ID and card ID are required", s.logger)
		return
	}

	collection, err := s.collectionService.RemoveCard(r.Context(), id, cardID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, collection, s.logger)
}

// handleShareCollection publishes a collection to the share service and
// returns its public URL.
func (s *Server) handleShareCollection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Collection ID is required", s.logger)
		return
	}

	result, err := s.collectionService.ShareCollection(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardchronicle/chronicle-server/internal/http/response"
	"github.com/cardchronicle/chronicle-server/internal/service"
)

// maxImageUploadBytes caps entry image uploads.
const maxImageUploadBytes = 10 << 20

// handleCreateEntry creates a new diary entry.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var input service.EntryInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.diaryService.CreateEntry(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, entry, s.logger)
}

// handleListEntries returns diary entries, newest first, optionally
// filtered by date ("today" or YYYY-MM-DD) and search text.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.EntryFilter{
		Date:   q.Get("date"),
		Search: q.Get("search"),
	}

	entries, err := s.diaryService.ListEntries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"entries": entries,
		"total":   len(entries),
	}, s.logger)
}

// handleGetEntry returns a single diary entry by ID.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", s.logger)
		return
	}

	entry, err := s.diaryService.GetEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleUpdateEntry replaces a diary entry's content.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", s.logger)
		return
	}

	var input service.EntryInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.diaryService.UpdateEntry(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}

// handleDeleteEntry deletes a diary entry and its images.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", s.logger)
		return
	}

	if err := s.diaryService.DeleteEntry(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAddEntryImage attaches an uploaded image to an entry. The image
// bytes are the request body; the format is sniffed from the data.
func (s *Server) handleAddEntryImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", s.logger)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageUploadBytes))
	if err != nil {
		response.Error(w, http.StatusRequestEntityTooLarge, "Image too large", s.logger)
		return
	}
	if len(data) == 0 {
		response.BadRequest(w, "Image data is required", s.logger)
		return
	}

	attachment, err := s.diaryService.AddImage(r.Context(), id, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, attachment, s.logger)
}

// handleGetEntryImage serves an image blob with its stored content type.
func (s *Server) handleGetEntryImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	imageID := chi.URLParam(r, "imageID")
	if id == "" || imageID == "" {
		response.BadRequest(w, "Entry ID and image ID are required", s.logger)
		return
	}

	attachment, data, err := s.diaryService.GetImage(r.Context(), id, imageID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write image response", "error", err, "image_id", imageID)
	}
}

// handleDeleteEntryImage removes an image from an entry.
func (s *Server) handleDeleteEntryImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	imageID := chi.URLParam(r, "imageID")
	if id == "" || imageID == "" {
		response.BadRequest(w, "Entry ID and image ID are required", s.logger)
		return
	}

	if err := s.diaryService.DeleteImage(r.Context(), id, imageID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

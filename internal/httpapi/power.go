package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attackmode/internal/models"
)

const dayFormat = "2006-01-02"

func (s *Server) handleListPowerEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListPowerEntries(r.Context(), userID(r), "")
	if err != nil {
		s.writeStoreError(w, err, "power entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type createPowerEntryRequest struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Day      string `json:"day,omitempty"`
}

func (s *Server) handleCreatePowerEntry(w http.ResponseWriter, r *http.Request) {
	var req createPowerEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := models.Category(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "category must be one of brain, muscle, money")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	day := req.Day
	if day == "" {
		day = s.now().Format(dayFormat)
	} else if _, err := time.Parse(dayFormat, day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	entry := models.PowerEntry{
		ID:       uuid.NewString(),
		UserID:   userID(r),
		Category: category,
		Title:    title,
		Day:      day,
	}
	if err := s.store.CreatePowerEntry(r.Context(), entry); err != nil {
		s.writeStoreError(w, err, "power entry")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}

type updatePowerEntryRequest struct {
	Category  *string `json:"category,omitempty"`
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (s *Server) handleUpdatePowerEntry(w http.ResponseWriter, r *http.Request) {
	var req updatePowerEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Category == nil && req.Title == nil && req.Completed == nil {
		writeError(w, http.StatusBadRequest, "provide at least one field: category, title or completed")
		return
	}

	entry, err := s.store.GetPowerEntry(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "power entry")
		return
	}

	if req.Category != nil {
		category := models.Category(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "category must be one of brain, muscle, money")
			return
		}
		entry.Category = category
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		entry.Title = title
	}
	if req.Completed != nil {
		entry.Completed = *req.Completed
	}

	updated, err := s.store.UpdatePowerEntry(r.Context(), entry)
	if err != nil {
		s.writeStoreError(w, err, "power entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": updated})
}

func (s *Server) handleDeletePowerEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePowerEntry(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "power entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

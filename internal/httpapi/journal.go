package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attackmode/internal/models"
)

func (s *Server) handleListJournalEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListJournalEntries(r.Context(), userID(r))
	if err != nil {
		s.writeStoreError(w, err, "journal entries")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type createJournalEntryRequest struct {
	Day     string `json:"day,omitempty"`
	Content string `json:"content"`
	Mood    string `json:"mood,omitempty"`
}

func (s *Server) handleCreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req createJournalEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	day := req.Day
	if day == "" {
		day = s.now().Format(dayFormat)
	} else if _, err := time.Parse(dayFormat, day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return
	}

	now := s.now().UTC()
	entry := models.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID(r),
		Day:       day,
		Content:   req.Content,
		Mood:      strings.TrimSpace(req.Mood),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateJournalEntry(r.Context(), entry); err != nil {
		s.writeStoreError(w, err, "journal entry for this day")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}

type updateJournalEntryRequest struct {
	Content *string `json:"content,omitempty"`
	Mood    *string `json:"mood,omitempty"`
}

func (s *Server) handleUpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req updateJournalEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Content == nil && req.Mood == nil {
		writeError(w, http.StatusBadRequest, "provide at least one field: content or mood")
		return
	}

	entry, err := s.store.GetJournalEntry(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "journal entry")
		return
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			writeError(w, http.StatusBadRequest, "content must not be empty")
			return
		}
		entry.Content = *req.Content
	}
	if req.Mood != nil {
		entry.Mood = strings.TrimSpace(*req.Mood)
	}
	entry.UpdatedAt = s.now().UTC()

	updated, err := s.store.UpdateJournalEntry(r.Context(), entry)
	if err != nil {
		s.writeStoreError(w, err, "journal entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": updated})
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteJournalEntry(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "journal entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attackmode/internal/models"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), userID(r), time.Time{})
	if err != nil {
		s.writeStoreError(w, err, "tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type createTaskRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	task := models.Task{
		ID:        uuid.NewString(),
		UserID:    userID(r),
		Title:     title,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		s.writeStoreError(w, err, "task")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.GetTask(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

type updateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil && req.Completed == nil {
		writeError(w, http.StatusBadRequest, "provide at least one field: title or completed")
		return
	}

	task, err := s.store.GetTask(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "task")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		task.Title = title
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
		// The store keeps completed_at consistent: stamps on complete,
		// clears on un-complete.
	}

	updated, err := s.store.UpdateTask(r.Context(), task)
	if err != nil {
		s.writeStoreError(w, err, "task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": updated})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attackmode/internal/models"
)

func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := s.store.ListProblems(r.Context(), userID(r))
	if err != nil {
		s.writeStoreError(w, err, "problems")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"problems": problems})
}

type createProblemRequest struct {
	Title     string `json:"title"`
	Situation string `json:"situation,omitempty"`
}

func (s *Server) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	var req createProblemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	now := s.now().UTC()
	problem := models.Problem{
		ID:        uuid.NewString(),
		UserID:    userID(r),
		Title:     title,
		Situation: req.Situation,
		Step:      models.ProblemStepSituation,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateProblem(r.Context(), problem); err != nil {
		s.writeStoreError(w, err, "problem")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"problem": problem})
}

type updateProblemRequest struct {
	Title        *string `json:"title,omitempty"`
	Situation    *string `json:"situation,omitempty"`
	IdealOutcome *string `json:"ideal_outcome,omitempty"`
	Obstacles    *string `json:"obstacles,omitempty"`
	Plan         *string `json:"plan,omitempty"`
	Step         *int    `json:"step,omitempty"`
	Resolved     *bool   `json:"resolved,omitempty"`
}

func (s *Server) handleUpdateProblem(w http.ResponseWriter, r *http.Request) {
	var req updateProblemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	problem, err := s.store.GetProblem(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "problem")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		problem.Title = title
	}
	if req.Situation != nil {
		problem.Situation = *req.Situation
	}
	if req.IdealOutcome != nil {
		problem.IdealOutcome = *req.IdealOutcome
	}
	if req.Obstacles != nil {
		problem.Obstacles = *req.Obstacles
	}
	if req.Plan != nil {
		problem.Plan = *req.Plan
	}
	if req.Step != nil {
		if *req.Step < models.ProblemStepSituation || *req.Step > models.ProblemStepReview {
			writeError(w, http.StatusBadRequest, "step must be between 1 and 5")
			return
		}
		problem.Step = *req.Step
	}
	if req.Resolved != nil {
		problem.Resolved = *req.Resolved
	}
	problem.UpdatedAt = s.now().UTC()

	updated, err := s.store.UpdateProblem(r.Context(), problem)
	if err != nil {
		s.writeStoreError(w, err, "problem")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"problem": updated})
}

func (s *Server) handleDeleteProblem(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProblem(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "problem")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"attackmode/internal/auth"
	"attackmode/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case len(req.Password) < 8:
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeStoreError(w, err, "user")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			writeError(w, http.StatusBadRequest, "email is already registered")
			return
		}
		s.writeStoreError(w, err, "user")
		return
	}

	if !s.setSessionCookie(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Same response as a bad password.
			writeUnauthorized(w)
			return
		}
		s.writeStoreError(w, err, "user")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeUnauthorized(w)
		return
	}

	if !s.setSessionCookie(w, user.ID) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		// A valid token for a deleted user is still no session.
		if errors.Is(err, models.ErrNotFound) {
			writeUnauthorized(w)
			return
		}
		s.writeStoreError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// setSessionCookie mints a session token and attaches it. Reports false
// after writing a 500 when signing fails.
func (s *Server) setSessionCookie(w http.ResponseWriter, uid string) bool {
	token, err := s.sessions.Issue(uid, s.now())
	if err != nil {
		s.writeStoreError(w, err, "session")
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

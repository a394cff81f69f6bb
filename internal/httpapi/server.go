package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"attackmode/internal/auth"
	"attackmode/internal/storage"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "attackmode_session"

const requestTimeout = 10 * time.Second

// Server owns the REST API: routing, session checks, and the handlers
// that glue the storage layer to the analytics aggregator.
type Server struct {
	store    storage.Provider
	sessions *auth.Sessions
	log      *zap.Logger

	// now is the reference clock for every aggregation. Injected so the
	// analytics endpoints are deterministic under test.
	now func() time.Time
}

// Option configures a Server beyond its required dependencies.
type Option func(*Server)

// WithClock replaces the server's reference clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(store storage.Provider, sessions *auth.Sessions, loc *time.Location, log *zap.Logger, opts ...Option) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().In(loc) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router assembles the full route tree with middleware applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogging(s.log))
	r.Use(timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/auth/me", s.handleMe)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.Post("/", s.handleCreateTask)
				r.Get("/{id}", s.handleGetTask)
				r.Put("/{id}", s.handleUpdateTask)
				r.Delete("/{id}", s.handleDeleteTask)
			})

			r.Route("/power-system", func(r chi.Router) {
				r.Get("/", s.handleListPowerEntries)
				r.Post("/", s.handleCreatePowerEntry)
				r.Put("/{id}", s.handleUpdatePowerEntry)
				r.Delete("/{id}", s.handleDeletePowerEntry)
			})

			r.Route("/journal", func(r chi.Router) {
				r.Get("/", s.handleListJournalEntries)
				r.Post("/", s.handleCreateJournalEntry)
				r.Put("/{id}", s.handleUpdateJournalEntry)
				r.Delete("/{id}", s.handleDeleteJournalEntry)
			})

			r.Route("/problems", func(r chi.Router) {
				r.Get("/", s.handleListProblems)
				r.Post("/", s.handleCreateProblem)
				r.Put("/{id}", s.handleUpdateProblem)
				r.Delete("/{id}", s.handleDeleteProblem)
			})

			r.Get("/analytics", s.handleAnalytics)
			r.Get("/user/stats", s.handleUserStats)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

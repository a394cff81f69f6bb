package storage

import (
	"context"
	"time"

	"attackmode/internal/models"
)

// Provider is the persistence boundary for the HTTP layer. Every record
// access is scoped to a user; a record owned by someone else surfaces as
// models.ErrNotFound, same as one that does not exist.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Tasks. A zero since lists everything; otherwise only tasks
	// created at or after since.
	CreateTask(ctx context.Context, task models.Task) error
	GetTask(ctx context.Context, userID, id string) (models.Task, error)
	ListTasks(ctx context.Context, userID string, since time.Time) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error

	// Power System entries. sinceDay filters on the entry's calendar
	// day (YYYY-MM-DD); empty lists everything.
	CreatePowerEntry(ctx context.Context, entry models.PowerEntry) error
	GetPowerEntry(ctx context.Context, userID, id string) (models.PowerEntry, error)
	ListPowerEntries(ctx context.Context, userID, sinceDay string) ([]models.PowerEntry, error)
	UpdatePowerEntry(ctx context.Context, entry models.PowerEntry) (models.PowerEntry, error)
	DeletePowerEntry(ctx context.Context, userID, id string) error

	// Journal entries: at most one per user per day, enforced with
	// models.ErrConflict.
	CreateJournalEntry(ctx context.Context, entry models.JournalEntry) error
	GetJournalEntry(ctx context.Context, userID, id string) (models.JournalEntry, error)
	ListJournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, userID, id string) error

	// Problem worksheets
	CreateProblem(ctx context.Context, problem models.Problem) error
	GetProblem(ctx context.Context, userID, id string) (models.Problem, error)
	ListProblems(ctx context.Context, userID string) ([]models.Problem, error)
	UpdateProblem(ctx context.Context, problem models.Problem) (models.Problem, error)
	DeleteProblem(ctx context.Context, userID, id string) error
}

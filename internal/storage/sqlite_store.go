package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"attackmode/internal/migration"
	"attackmode/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore implements Provider on a single SQLite database file.
// Migrations are compiled into the binary, so a deployed server never
// depends on SQL files on disk.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init creates the data directory and database, then applies any
// pending migrations. Safe to call on an existing database.
func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	runner := migration.NewRunner(s.db, s.migrationsFS())
	if _, err := runner.Apply(nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an already-initialized database and verifies its schema
// version matches the migrations in this binary.
func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'attackmode init' first")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	runner := migration.NewRunner(s.db, s.migrationsFS())
	return runner.ValidateVersion()
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent request load.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) migrationsFS() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// ---- time encoding

// Timestamps are stored as RFC 3339 text columns.

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func encodeNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func decodeNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := decodeTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ---- users

func (s *SQLiteStore) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, encodeTime(user.CreatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return models.ErrConflict
	}
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	if u.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ---- tasks

func (s *SQLiteStore) CreateTask(ctx context.Context, task models.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, completed, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Completed,
		encodeTime(task.CreatedAt), encodeNullTime(task.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) GetTask(ctx context.Context, userID, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, completed, created_at, completed_at
		FROM tasks WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, models.ErrNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, userID string, since time.Time) ([]models.Task, error) {
	query := `
		SELECT id, user_id, title, completed, created_at, completed_at
		FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if !since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, encodeTime(since))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask persists the task's title and completion state. The
// completed/completed_at invariant is normalized here: completing a task
// stamps completed_at if the caller left it unset, and un-completing
// always clears it.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if !task.Completed {
		task.CompletedAt = nil
	} else if task.CompletedAt == nil {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, completed = ?, completed_at = ?
		WHERE id = ? AND user_id = ?`,
		task.Title, task.Completed, encodeNullTime(task.CompletedAt),
		task.ID, task.UserID,
	)
	if err != nil {
		return models.Task{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanTask(scan func(...any) error) (models.Task, error) {
	var t models.Task
	var createdAt string
	var completedAt sql.NullString

	if err := scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &createdAt, &completedAt); err != nil {
		return models.Task{}, err
	}

	var err error
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = decodeNullTime(completedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ---- shared helpers

// requireRowAffected turns a zero-row update or delete into ErrNotFound,
// which covers both a missing id and an id owned by another user.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// isUniqueViolation detects SQLite unique-constraint failures without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

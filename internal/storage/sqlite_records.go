package storage

import (
	"context"
	"database/sql"
	"errors"

	"attackmode/internal/models"
)

// ---- power entries

func (s *SQLiteStore) CreatePowerEntry(ctx context.Context, entry models.PowerEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO power_entries (id, user_id, category, title, completed, day)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, string(entry.Category), entry.Title, entry.Completed, entry.Day,
	)
	return err
}

func (s *SQLiteStore) GetPowerEntry(ctx context.Context, userID, id string) (models.PowerEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, category, title, completed, day
		FROM power_entries WHERE id = ? AND user_id = ?`, id, userID)

	e, err := scanPowerEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PowerEntry{}, models.ErrNotFound
		}
		return models.PowerEntry{}, err
	}
	return e, nil
}

func (s *SQLiteStore) ListPowerEntries(ctx context.Context, userID, sinceDay string) ([]models.PowerEntry, error) {
	query := `
		SELECT id, user_id, category, title, completed, day
		FROM power_entries WHERE user_id = ?`
	args := []any{userID}
	if sinceDay != "" {
		// Day is YYYY-MM-DD, so lexicographic comparison is date order.
		query += ` AND day >= ?`
		args = append(args, sinceDay)
	}
	query += ` ORDER BY day DESC, category`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.PowerEntry{}
	for rows.Next() {
		e, err := scanPowerEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) UpdatePowerEntry(ctx context.Context, entry models.PowerEntry) (models.PowerEntry, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE power_entries SET category = ?, title = ?, completed = ?, day = ?
		WHERE id = ? AND user_id = ?`,
		string(entry.Category), entry.Title, entry.Completed, entry.Day,
		entry.ID, entry.UserID,
	)
	if err != nil {
		return models.PowerEntry{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.PowerEntry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) DeletePowerEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM power_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanPowerEntry(scan func(...any) error) (models.PowerEntry, error) {
	var e models.PowerEntry
	var category string
	if err := scan(&e.ID, &e.UserID, &category, &e.Title, &e.Completed, &e.Day); err != nil {
		return models.PowerEntry{}, err
	}
	e.Category = models.Category(category)
	return e, nil
}

// ---- journal entries

func (s *SQLiteStore) CreateJournalEntry(ctx context.Context, entry models.JournalEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, user_id, day, content, mood, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Day, entry.Content, entry.Mood,
		encodeTime(entry.CreatedAt), encodeTime(entry.UpdatedAt),
	)
	if err != nil && isUniqueViolation(err) {
		return models.ErrConflict
	}
	return err
}

func (s *SQLiteStore) GetJournalEntry(ctx context.Context, userID, id string) (models.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, day, content, mood, created_at, updated_at
		FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID)

	e, err := scanJournalEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.JournalEntry{}, models.ErrNotFound
		}
		return models.JournalEntry{}, err
	}
	return e, nil
}

func (s *SQLiteStore) ListJournalEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day, content, mood, created_at, updated_at
		FROM journal_entries WHERE user_id = ? ORDER BY day DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		e, err := scanJournalEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) UpdateJournalEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE journal_entries SET content = ?, mood = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		entry.Content, entry.Mood, encodeTime(entry.UpdatedAt),
		entry.ID, entry.UserID,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}

func (s *SQLiteStore) DeleteJournalEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanJournalEntry(scan func(...any) error) (models.JournalEntry, error) {
	var e models.JournalEntry
	var createdAt, updatedAt string
	if err := scan(&e.ID, &e.UserID, &e.Day, &e.Content, &e.Mood, &createdAt, &updatedAt); err != nil {
		return models.JournalEntry{}, err
	}

	var err error
	if e.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.JournalEntry{}, err
	}
	if e.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

// ---- problems

func (s *SQLiteStore) CreateProblem(ctx context.Context, problem models.Problem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO problems (id, user_id, title, situation, ideal_outcome, obstacles, plan,
		                      step, resolved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		problem.ID, problem.UserID, problem.Title, problem.Situation, problem.IdealOutcome,
		problem.Obstacles, problem.Plan, problem.Step, problem.Resolved,
		encodeTime(problem.CreatedAt), encodeTime(problem.UpdatedAt),
	)
	return err
}

func (s *SQLiteStore) GetProblem(ctx context.Context, userID, id string) (models.Problem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, situation, ideal_outcome, obstacles, plan,
		       step, resolved, created_at, updated_at
		FROM problems WHERE id = ? AND user_id = ?`, id, userID)

	p, err := scanProblem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Problem{}, models.ErrNotFound
		}
		return models.Problem{}, err
	}
	return p, nil
}

func (s *SQLiteStore) ListProblems(ctx context.Context, userID string) ([]models.Problem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, situation, ideal_outcome, obstacles, plan,
		       step, resolved, created_at, updated_at
		FROM problems WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	problems := []models.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows.Scan)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, rows.Err()
}

func (s *SQLiteStore) UpdateProblem(ctx context.Context, problem models.Problem) (models.Problem, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE problems SET title = ?, situation = ?, ideal_outcome = ?, obstacles = ?,
		                    plan = ?, step = ?, resolved = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		problem.Title, problem.Situation, problem.IdealOutcome, problem.Obstacles,
		problem.Plan, problem.Step, problem.Resolved, encodeTime(problem.UpdatedAt),
		problem.ID, problem.UserID,
	)
	if err != nil {
		return models.Problem{}, err
	}
	if err := requireRowAffected(res); err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}

func (s *SQLiteStore) DeleteProblem(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM problems WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanProblem(scan func(...any) error) (models.Problem, error) {
	var p models.Problem
	var createdAt, updatedAt string
	if err := scan(&p.ID, &p.UserID, &p.Title, &p.Situation, &p.IdealOutcome, &p.Obstacles,
		&p.Plan, &p.Step, &p.Resolved, &createdAt, &updatedAt); err != nil {
		return models.Problem{}, err
	}

	var err error
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return models.Problem{}, err
	}
	if p.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return models.Problem{}, err
	}
	return p, nil
}

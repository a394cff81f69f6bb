package models

import "time"

// Task is a one-off daily to-do item.
//
// CompletedAt is non-nil exactly when Completed is true; the streak
// calculation depends on that invariant, so the store enforces it on
// every update.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

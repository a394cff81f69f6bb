package models

import "time"

// JournalEntry is a free-form daily journal record. A user can have at
// most one entry per calendar day.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

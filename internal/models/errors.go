package models

import "errors"

var (
	// ErrNotFound covers both missing records and records owned by a
	// different user, so a caller can't probe for existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness rule is violated, e.g.
	// a second journal entry for the same day.
	ErrConflict = errors.New("already exists")
)

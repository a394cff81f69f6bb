package models

import "time"

// Problem worksheet steps, in wizard order.
const (
	ProblemStepSituation = 1
	ProblemStepOutcome   = 2
	ProblemStepObstacles = 3
	ProblemStepPlan      = 4
	ProblemStepReview    = 5
)

// Problem is a structured problem-solving worksheet. Step records how
// far through the wizard the user has gotten, so a half-finished
// worksheet reopens where it was left.
type Problem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	Title        string    `json:"title"`
	Situation    string    `json:"situation,omitempty"`
	IdealOutcome string    `json:"ideal_outcome,omitempty"`
	Obstacles    string    `json:"obstacles,omitempty"`
	Plan         string    `json:"plan,omitempty"`
	Step         int       `json:"step"`
	Resolved     bool      `json:"resolved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package models

// Category is one of the three fixed Power System life domains.
type Category string

const (
	CategoryBrain  Category = "brain"
	CategoryMuscle Category = "muscle"
	CategoryMoney  Category = "money"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryBrain, CategoryMuscle, CategoryMoney}

// Valid reports whether c is one of the three known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBrain, CategoryMuscle, CategoryMoney:
		return true
	}
	return false
}

// PowerEntry is a habit-tracker record scoped to a single calendar day.
type PowerEntry struct {
	ID        string   `json:"id"`
	UserID    string   `json:"-"`
	Category  Category `json:"category"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	Day       string   `json:"day"` // YYYY-MM-DD format
}

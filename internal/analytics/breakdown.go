package analytics

import "attackmode/internal/models"

// Chart colors for the three Power System categories. Fixed constants;
// the frontend never derives these.
const (
	colorBrain  = "#8B5CF6"
	colorMuscle = "#EF4444"
	colorMoney  = "#10B981"
)

var categoryColors = map[models.Category]string{
	models.CategoryBrain:  colorBrain,
	models.CategoryMuscle: colorMuscle,
	models.CategoryMoney:  colorMoney,
}

// CategoryShare is one slice of the Power System breakdown chart.
type CategoryShare struct {
	Name       models.Category `json:"name"`
	Percentage int             `json:"percentage"`
	Color      string          `json:"color"`
}

// Breakdown computes each category's percentage share of the given
// entries, in fixed brain/muscle/money order.
//
// With no entries at all it returns an even 33/33/34 split instead of
// three zeros, so the dashboard chart always has something to render.
func Breakdown(entries []models.PowerEntry) []CategoryShare {
	counts := make(map[models.Category]int, len(models.Categories))
	total := 0
	for _, e := range entries {
		counts[e.Category]++
		total++
	}

	shares := make([]CategoryShare, len(models.Categories))
	for i, c := range models.Categories {
		pct := Rate(counts[c], total)
		if total == 0 {
			pct = 33
			if c == models.CategoryMoney {
				pct = 34
			}
		}
		shares[i] = CategoryShare{Name: c, Percentage: pct, Color: categoryColors[c]}
	}
	return shares
}

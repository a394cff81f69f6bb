package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"attackmode/internal/analytics"
	"attackmode/internal/models"
)

// bucketStat is one chart point in the analytics response.
type bucketStat struct {
	Label          string `json:"label"`
	Date           string `json:"date"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

// handleAnalytics serves GET /api/analytics?timeRange=daily|weekly. It
// loads the raw record window for the user, runs the aggregator, and
// returns chart-ready buckets plus the category breakdown.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	window := analytics.Window(r.URL.Query().Get("timeRange"))
	if window == "" {
		window = analytics.WindowDaily
	}
	if !window.Valid() {
		writeError(w, http.StatusBadRequest, "timeRange must be daily or weekly")
		return
	}

	now := s.now()
	tasks, entries, err := s.loadWindow(r, now, window.RetrievalDays())
	if err != nil {
		s.log.Error("loading analytics window", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	records := make([]analytics.Record, 0, len(tasks)+len(entries))
	for _, t := range tasks {
		records = append(records, analytics.Record{At: t.CreatedAt, Completed: t.Completed})
	}
	for _, e := range entries {
		day, err := time.ParseInLocation(dayFormat, e.Day, now.Location())
		if err != nil {
			continue // malformed day never breaks the dashboard
		}
		records = append(records, analytics.Record{At: day, Completed: e.Completed})
	}

	buckets := analytics.Bucketize(records, window, now)
	stats := make([]bucketStat, len(buckets))
	for i, b := range buckets {
		completed := 0
		for _, rec := range b.Records {
			if rec.Completed {
				completed++
			}
		}
		stats[i] = bucketStat{
			Label:          b.Label,
			Date:           b.Start.Format(dayFormat),
			Total:          len(b.Records),
			Completed:      completed,
			CompletionRate: b.CompletionRate(),
		}
	}

	resp := map[string]any{
		"timeRange":            string(window),
		"powerSystemBreakdown": analytics.Breakdown(entries),
	}
	if window == analytics.WindowWeekly {
		resp["weeklyStats"] = stats
	} else {
		resp["dailyStats"] = stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUserStats serves GET /api/user/stats: the dashboard widgets'
// current streak, task totals, and category split.
func (s *Server) handleUserStats(w http.ResponseWriter, r *http.Request) {
	now := s.now()

	tasks, err := s.store.ListTasks(r.Context(), userID(r), time.Time{})
	if err != nil {
		s.log.Error("loading tasks for stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	entries, err := s.store.ListPowerEntries(r.Context(), userID(r), "")
	if err != nil {
		s.log.Error("loading power entries for stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Only completed records with a completion day count toward streaks.
	var completions []time.Time
	completedTasks := 0
	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil {
			completions = append(completions, *t.CompletedAt)
			completedTasks++
		}
	}
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if day, err := time.ParseInLocation(dayFormat, e.Day, now.Location()); err == nil {
			completions = append(completions, day)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"currentStreak":        analytics.CurrentStreak(completions, now),
			"totalTasks":           len(tasks),
			"completedTasks":       completedTasks,
			"powerSystemBreakdown": analytics.Breakdown(entries),
		},
	})
}

// loadWindow fetches the user's raw records for the trailing window of
// retrievalDays calendar days ending today.
func (s *Server) loadWindow(r *http.Request, now time.Time, retrievalDays int) ([]models.Task, []models.PowerEntry, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	windowStart := today.AddDate(0, 0, -(retrievalDays - 1))

	tasks, err := s.store.ListTasks(r.Context(), userID(r), windowStart.UTC())
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.store.ListPowerEntries(r.Context(), userID(r), windowStart.Format(dayFormat))
	if err != nil {
		return nil, nil, err
	}
	return tasks, entries, nil
}

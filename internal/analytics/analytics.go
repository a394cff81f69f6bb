package analytics

import (
	"math"
	"time"
)

// Window selects the bucketing granularity for the dashboard charts.
type Window string

const (
	WindowDaily  Window = "daily"
	WindowWeekly Window = "weekly"
)

const (
	// DailyBucketCount is the number of one-day buckets in a daily window.
	DailyBucketCount = 14
	// WeeklyBucketCount is the number of rolling 7-day buckets in a weekly window.
	WeeklyBucketCount = 8
	// StreakLookbackDays bounds the backward walk of CurrentStreak.
	StreakLookbackDays = 30
)

// RetrievalDays returns how many days of raw records a window needs.
func (w Window) RetrievalDays() int {
	if w == WindowWeekly {
		return WeeklyBucketCount * 7
	}
	return DailyBucketCount
}

// Valid reports whether w is a known window kind.
func (w Window) Valid() bool {
	return w == WindowDaily || w == WindowWeekly
}

// Record is the neutral shape both tasks and power entries are reduced
// to before aggregation: one relevant timestamp plus a completion flag.
type Record struct {
	At        time.Time
	Completed bool
}

// Bucket is a computed grouping of records over a calendar interval.
// Buckets are never persisted; they are rebuilt on every request.
type Bucket struct {
	Label   string
	Start   time.Time // first day in the bucket, midnight
	Records []Record
}

// CompletionRate returns the bucket's completed/total percentage.
func (b Bucket) CompletionRate() int {
	completed := 0
	for _, r := range b.Records {
		if r.Completed {
			completed++
		}
	}
	return Rate(completed, len(b.Records))
}

// dayStart truncates t to midnight in now's location. All day-key math
// runs in a single location so a record never straddles two buckets.
func dayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Bucketize groups records into calendar buckets ending at "today".
//
// Daily windows produce one bucket per day, oldest first. Weekly windows
// produce rolling 7-day buckets anchored to now, not Monday-start calendar
// weeks. Ranges are half-open [start, start+span) at day granularity, and
// records older than the window are dropped silently.
func Bucketize(records []Record, window Window, now time.Time) []Bucket {
	loc := now.Location()
	today := dayStart(now, loc)

	count := DailyBucketCount
	spanDays := 1
	if window == WindowWeekly {
		count = WeeklyBucketCount
		spanDays = 7
	}

	buckets := make([]Bucket, count)
	for i := range buckets {
		// Newest bucket ends today; walk backwards span by span.
		start := today.AddDate(0, 0, -spanDays*(count-1-i)-(spanDays-1))
		buckets[i] = Bucket{
			Label: bucketLabel(start, spanDays),
			Start: start,
		}
	}

	windowStart := buckets[0].Start
	end := today.AddDate(0, 0, 1)
	for _, r := range records {
		day := dayStart(r.At, loc)
		if day.Before(windowStart) || !day.Before(end) {
			continue
		}
		idx := daysBetween(windowStart, day) / spanDays
		buckets[idx].Records = append(buckets[idx].Records, r)
	}

	return buckets
}

func bucketLabel(start time.Time, spanDays int) string {
	if spanDays == 1 {
		return start.Format("Jan 2")
	}
	end := start.AddDate(0, 0, spanDays-1)
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

// daysBetween counts whole calendar days from a to b, both midnights in
// the same location. AddDate-based to stay correct across DST shifts.
func daysBetween(a, b time.Time) int {
	days := 0
	for a.Before(b) {
		a = a.AddDate(0, 0, 1)
		days++
	}
	return days
}

// Rate returns round(100*completed/total) as an integer percentage.
// A zero total yields 0 rather than dividing by zero.
func Rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// CurrentStreak counts consecutive calendar days with at least one
// completion, walking backward from today and stopping at the first gap.
//
// The walk starts at today itself: a day with no completions yet zeroes
// the streak even if yesterday was active. The lookback is capped at
// StreakLookbackDays.
func CurrentStreak(completionTimes []time.Time, now time.Time) int {
	loc := now.Location()
	active := make(map[string]struct{}, len(completionTimes))
	for _, t := range completionTimes {
		active[dayStart(t, loc).Format("2006-01-02")] = struct{}{}
	}

	streak := 0
	day := dayStart(now, loc)
	for i := 0; i < StreakLookbackDays; i++ {
		if _, ok := active[day.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attackmode/internal/models"
)

// Fixed reference time so every test is deterministic: a Wednesday
// afternoon in UTC.
var testNow = time.Date(2026, time.March, 11, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestRate(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"zero of zero", 0, 0, 0},
		{"zero of some", 0, 5, 0},
		{"all", 7, 7, 100},
		{"half", 1, 2, 50},
		{"rounds half up", 1, 8, 13},  // 12.5 -> 13
		{"rounds down", 1, 3, 33},     // 33.33 -> 33
		{"rounds up", 2, 3, 67},       // 66.67 -> 67
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rate(tc.completed, tc.total))
		})
	}
}

func TestBucketize_Daily(t *testing.T) {
	records := []Record{
		{At: testNow, Completed: true},
		{At: daysAgo(1), Completed: false},
		{At: daysAgo(13), Completed: true},
		{At: daysAgo(14), Completed: true}, // outside the window, dropped
	}

	buckets := Bucketize(records, WindowDaily, testNow)
	require.Len(t, buckets, DailyBucketCount)

	// Oldest first, ending today.
	assert.Equal(t, "Feb 26", buckets[0].Label)
	assert.Equal(t, "Mar 11", buckets[13].Label)

	assert.Len(t, buckets[0].Records, 1)  // daysAgo(13)
	assert.Len(t, buckets[12].Records, 1) // daysAgo(1)
	assert.Len(t, buckets[13].Records, 1) // today

	total := 0
	for _, b := range buckets {
		total += len(b.Records)
	}
	assert.Equal(t, 3, total, "out-of-window record must be dropped")
}

func TestBucketize_Weekly(t *testing.T) {
	records := []Record{
		{At: testNow, Completed: true},
		{At: daysAgo(6), Completed: true},  // same rolling week as today
		{At: daysAgo(7), Completed: true},  // previous rolling week
		{At: daysAgo(55), Completed: true}, // first day of the oldest bucket
		{At: daysAgo(56), Completed: true}, // dropped
	}

	buckets := Bucketize(records, WindowWeekly, testNow)
	require.Len(t, buckets, WeeklyBucketCount)

	assert.Len(t, buckets[7].Records, 2)
	assert.Len(t, buckets[6].Records, 1)
	assert.Len(t, buckets[0].Records, 1)

	// Rolling windows anchored to now, not Monday-start weeks.
	assert.Equal(t, daysAgo(55).Truncate(24*time.Hour).Format("2006-01-02"),
		buckets[0].Start.Format("2006-01-02"))
}

func TestBucketize_Idempotent(t *testing.T) {
	records := []Record{
		{At: daysAgo(2), Completed: true},
		{At: daysAgo(5), Completed: false},
	}
	a := Bucketize(records, WindowDaily, testNow)
	b := Bucketize(records, WindowDaily, testNow)
	assert.Equal(t, a, b)
}

func TestBucketize_BoundaryRecordLandsInExactlyOneBucket(t *testing.T) {
	// Midnight on a bucket boundary: day granularity means it belongs to
	// that day's bucket, never the one before.
	midnight := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	buckets := Bucketize([]Record{{At: midnight, Completed: true}}, WindowDaily, testNow)

	owners := 0
	for _, b := range buckets {
		owners += len(b.Records)
	}
	assert.Equal(t, 1, owners)
	assert.Len(t, buckets[12].Records, 1)
}

func TestBucketCompletionRate(t *testing.T) {
	b := Bucket{Records: []Record{
		{Completed: true},
		{Completed: true},
		{Completed: false},
	}}
	assert.Equal(t, 67, b.CompletionRate())
	assert.Equal(t, 0, Bucket{}.CompletionRate())
}

func TestCurrentStreak(t *testing.T) {
	t.Run("three consecutive days ending today", func(t *testing.T) {
		times := []time.Time{testNow, daysAgo(1), daysAgo(2), daysAgo(4)}
		assert.Equal(t, 3, CurrentStreak(times, testNow))
	})

	t.Run("gap on today resets to zero", func(t *testing.T) {
		times := []time.Time{daysAgo(1), daysAgo(2)}
		assert.Equal(t, 0, CurrentStreak(times, testNow))
	})

	t.Run("multiple completions on one day count once", func(t *testing.T) {
		times := []time.Time{testNow, testNow.Add(-time.Hour), daysAgo(1)}
		assert.Equal(t, 2, CurrentStreak(times, testNow))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(nil, testNow))
	})

	t.Run("capped at lookback bound", func(t *testing.T) {
		var times []time.Time
		for i := 0; i < 45; i++ {
			times = append(times, daysAgo(i))
		}
		assert.Equal(t, StreakLookbackDays, CurrentStreak(times, testNow))
	})
}

func TestBreakdown(t *testing.T) {
	t.Run("empty input falls back to even split", func(t *testing.T) {
		shares := Breakdown(nil)
		require.Len(t, shares, 3)
		assert.Equal(t, models.CategoryBrain, shares[0].Name)
		assert.Equal(t, models.CategoryMuscle, shares[1].Name)
		assert.Equal(t, models.CategoryMoney, shares[2].Name)
		assert.Equal(t, []int{33, 33, 34},
			[]int{shares[0].Percentage, shares[1].Percentage, shares[2].Percentage})
	})

	t.Run("percentages sum to about 100", func(t *testing.T) {
		entries := []models.PowerEntry{
			{Category: models.CategoryBrain},
			{Category: models.CategoryBrain},
			{Category: models.CategoryMuscle},
		}
		shares := Breakdown(entries)
		assert.Equal(t, 67, shares[0].Percentage)
		assert.Equal(t, 33, shares[1].Percentage)
		assert.Equal(t, 0, shares[2].Percentage)

		sum := shares[0].Percentage + shares[1].Percentage + shares[2].Percentage
		assert.InDelta(t, 100, sum, 1)
	})

	t.Run("colors are fixed", func(t *testing.T) {
		shares := Breakdown(nil)
		assert.Equal(t, "#8B5CF6", shares[0].Color)
		assert.Equal(t, "#EF4444", shares[1].Color)
		assert.Equal(t, "#10B981", shares[2].Color)
	})
}

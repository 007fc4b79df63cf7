package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

func usageEntry(at time.Time, bags int, undone bool) *models.UsageLogEntry {
	return &models.UsageLogEntry{
		ID:           uuid.New(),
		LocationID:   uuid.New(),
		ItemID:       uuid.New(),
		LoggedAt:     at,
		BagCount:     bags,
		KgEquivalent: float64(bags) * 10,
		IsUndone:     undone,
	}
}

func TestDailyTrendBucketsAndZeroFill(t *testing.T) {
	now := time.Date(2025, 8, 20, 16, 30, 0, 0, time.UTC)

	logs := []*models.UsageLogEntry{
		usageEntry(now.AddDate(0, 0, -6).Add(2*time.Hour), 3, false),
		usageEntry(now.AddDate(0, 0, -6).Add(5*time.Hour), 2, false), // same day accumulates
		usageEntry(now, 7, false),
		usageEntry(now.AddDate(0, 0, -10), 99, false), // outside window, dropped
		usageEntry(now.AddDate(0, 0, -2), 4, true),    // undone, always excluded
	}

	series := DailyTrend(logs, 7, now)
	require.Len(t, series, 7)

	assert.Equal(t, time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC), series[0].Date, "oldest first")
	assert.Equal(t, 5, series[0].BagsUsed)
	assert.Equal(t, 50.0, series[0].KgUsed)
	assert.Equal(t, 0, series[4].BagsUsed, "undone entry leaves its day empty")
	assert.Equal(t, 7, series[6].BagsUsed)
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), series[6].Date)
}

func TestDailyTrendEmptyInputs(t *testing.T) {
	now := time.Now()

	assert.Nil(t, DailyTrend(nil, 0, now))
	assert.Nil(t, DailyTrend(nil, -3, now))

	series := DailyTrend(nil, 5, now)
	require.Len(t, series, 5)
	for _, day := range series {
		assert.Zero(t, day.BagsUsed)
		assert.Zero(t, day.KgUsed)
	}
}

func TestHourlyPattern(t *testing.T) {
	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)

	logs := []*models.UsageLogEntry{
		usageEntry(day.Add(8*time.Hour), 2, false),
		usageEntry(day.Add(8*time.Hour+45*time.Minute), 3, false),
		usageEntry(day.Add(17*time.Hour), 1, false),
		usageEntry(day.AddDate(0, 0, -1).Add(8*time.Hour), 9, false), // other day
		usageEntry(day.Add(12*time.Hour), 5, true),                   // undone
	}

	buckets := HourlyPattern(logs, day)
	require.Len(t, buckets, 24)

	assert.Equal(t, 8, buckets[8].Hour)
	assert.Equal(t, 5, buckets[8].BagsUsed)
	assert.Equal(t, 1, buckets[17].BagsUsed)
	assert.Equal(t, 0, buckets[12].BagsUsed)
	assert.Equal(t, 0, buckets[0].BagsUsed)
}

func TestSummarizeRisingWeek(t *testing.T) {
	start := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	bags := []int{10, 12, 8, 15, 20, 18, 25}

	series := make([]DailyUsage, len(bags))
	for i, b := range bags {
		series[i] = DailyUsage{Date: start.AddDate(0, 0, i), BagsUsed: b}
	}

	summary := Summarize(series)

	assert.Equal(t, 108, summary.TotalBags)
	assert.InDelta(t, 108.0/7.0, summary.AvgPerDay, 1e-9)
	assert.Equal(t, start.AddDate(0, 0, 6), summary.PeakDay, "day 7 peaks at 25 bags")
	assert.Equal(t, 25, summary.PeakDayBags)
	assert.Equal(t, TrendUp, summary.Direction)
	// First half [10 12 8] avg 10, second half [15 20 18 25] avg 19.5 -> +95%.
	assert.InDelta(t, 95.0, summary.TrendPercent, 1e-9)
}

func TestSummarizePeakTieFirstOccurrenceWins(t *testing.T) {
	start := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	series := []DailyUsage{
		{Date: start, BagsUsed: 5},
		{Date: start.AddDate(0, 0, 1), BagsUsed: 9},
		{Date: start.AddDate(0, 0, 2), BagsUsed: 9},
	}

	summary := Summarize(series)
	assert.Equal(t, start.AddDate(0, 0, 1), summary.PeakDay)
	assert.Equal(t, 9, summary.PeakDayBags)
}

func TestSummarizeDirections(t *testing.T) {
	start := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	build := func(bags ...int) []DailyUsage {
		s := make([]DailyUsage, len(bags))
		for i, b := range bags {
			s[i] = DailyUsage{Date: start.AddDate(0, 0, i), BagsUsed: b}
		}
		return s
	}

	assert.Equal(t, TrendDown, Summarize(build(20, 20, 10, 10)).Direction)
	assert.Equal(t, TrendStable, Summarize(build(20, 20, 20, 21)).Direction, "within hysteresis band")
	assert.Equal(t, TrendStable, Summarize(build(0, 0, 5, 9)).Direction, "zero first half reads stable")
	assert.Equal(t, 0.0, Summarize(build(0, 0, 5, 9)).TrendPercent)
}

func TestSummarizeEmptySeries(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalBags)
	assert.Zero(t, summary.AvgPerDay)
	assert.Equal(t, TrendStable, summary.Direction)
}

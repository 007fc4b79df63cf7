package stock

import (
	"math"
	"time"

	"github.com/moeketsims/stocktracking-sub002/internal/models"
)

// Trend directions. The 5% band is a fixed hysteresis so near-zero changes
// read as stable instead of flapping.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"

	trendHysteresisPercent = 5.0
)

// DailyUsage is one zero-fillable daily bucket of a usage trend series.
type DailyUsage struct {
	Date     time.Time `json:"date"`
	BagsUsed int       `json:"bags_used"`
	KgUsed   float64   `json:"kg_used"`
}

// HourlyUsage is one hour-of-day bucket for today's usage pattern.
type HourlyUsage struct {
	Hour     int `json:"hour"`
	BagsUsed int `json:"bags_used"`
}

// TrendSummary is the derived statistics over a daily trend series.
type TrendSummary struct {
	TotalBags    int            `json:"total_bags"`
	AvgPerDay    float64        `json:"avg_per_day"`
	PeakDay      time.Time      `json:"peak_day"`
	PeakDayBags  int            `json:"peak_day_bags"`
	Direction    TrendDirection `json:"trend_direction"`
	TrendPercent float64        `json:"trend_percentage"`
}

// DailyTrend folds usage logs into a fixed-length series covering the last
// `days` calendar days up to and including now's date, oldest first. Buckets
// are keyed by UTC calendar date; entries outside the window and undone
// entries are dropped. Empty days stay present with zero counts.
func DailyTrend(logs []*models.UsageLogEntry, days int, now time.Time) []DailyUsage {
	if days <= 0 {
		return nil
	}

	today := truncateToDayUTC(now)
	series := make([]DailyUsage, days)
	index := make(map[time.Time]int, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i-days+1)
		series[i] = DailyUsage{Date: date}
		index[date] = i
	}

	for _, entry := range logs {
		if entry.IsUndone {
			continue
		}
		day := truncateToDayUTC(entry.LoggedAt)
		i, ok := index[day]
		if !ok {
			continue
		}
		series[i].BagsUsed += entry.BagCount
		series[i].KgUsed += entry.KgEquivalent
	}

	return series
}

// HourlyPattern buckets one day's usage logs by UTC hour of day, 0-23,
// zero-filled. Logs from other days and undone logs are dropped.
func HourlyPattern(logs []*models.UsageLogEntry, day time.Time) []HourlyUsage {
	target := truncateToDayUTC(day)
	buckets := make([]HourlyUsage, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}

	for _, entry := range logs {
		if entry.IsUndone {
			continue
		}
		at := entry.LoggedAt.UTC()
		if !truncateToDayUTC(at).Equal(target) {
			continue
		}
		buckets[at.Hour()].BagsUsed += entry.BagCount
	}

	return buckets
}

// Summarize derives totals, the peak day (first occurrence wins on ties) and
// the first-half versus second-half trend over a daily series.
func Summarize(series []DailyUsage) TrendSummary {
	summary := TrendSummary{Direction: TrendStable}
	if len(series) == 0 {
		return summary
	}

	peakIdx := 0
	for i, day := range series {
		summary.TotalBags += day.BagsUsed
		if day.BagsUsed > series[peakIdx].BagsUsed {
			peakIdx = i
		}
	}
	summary.AvgPerDay = float64(summary.TotalBags) / float64(len(series))
	summary.PeakDay = series[peakIdx].Date
	summary.PeakDayBags = series[peakIdx].BagsUsed

	mid := len(series) / 2
	firstAvg := halfAverage(series[:mid])
	secondAvg := halfAverage(series[mid:])

	if firstAvg > 0 {
		change := (secondAvg - firstAvg) / firstAvg * 100
		summary.TrendPercent = math.Abs(change)
		switch {
		case change > trendHysteresisPercent:
			summary.Direction = TrendUp
		case change < -trendHysteresisPercent:
			summary.Direction = TrendDown
		}
	}

	return summary
}

func halfAverage(half []DailyUsage) float64 {
	total := 0
	for _, day := range half {
		total += day.BagsUsed
	}
	n := len(half)
	if n == 0 {
		n = 1
	}
	return float64(total) / float64(n)
}

func truncateToDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

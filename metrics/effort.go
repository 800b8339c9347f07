package metrics

import (
	"math"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
)

// WeekDays is the number of buckets in a weekly effort series.
const WeekDays = 7

// EffortWeights converts activity counts into estimated hours.
type EffortWeights struct {
	// ReflectionHours is credited per journal entry.
	ReflectionHours float64 `json:"reflection_hours"`
	// DeepWorkHours is credited per completed task.
	DeepWorkHours float64 `json:"deep_work_hours"`
}

// DefaultEffortWeights returns half an hour per entry and an hour and a
// half per completed task.
func DefaultEffortWeights() EffortWeights {
	return EffortWeights{ReflectionHours: 0.5, DeepWorkHours: 1.5}
}

// EffortBucket is the estimated effort of one calendar day.
type EffortBucket struct {
	Day        journal.DayKey `json:"day"`
	Name       string         `json:"name"`
	Date       string         `json:"date"`
	Reflection float64        `json:"reflection"`
	DeepWork   float64        `json:"deep_work"`
	Total      float64        `json:"total"`
}

// BuildWeeklyEffort returns seven daily buckets ending at today, oldest
// first, using DefaultEffortWeights.
func BuildWeeklyEffort(goals []goal.Goal, entries []journal.Entry, today time.Time) []EffortBucket {
	return BuildWeeklyEffortWeighted(goals, entries, today, DefaultEffortWeights())
}

// BuildWeeklyEffortWeighted is BuildWeeklyEffort with explicit weights.
// Days are calendar days in today's location. Journal entries bucket by
// their day key; tasks bucket by the day of completedAt.
func BuildWeeklyEffortWeighted(goals []goal.Goal, entries []journal.Entry, today time.Time, weights EffortWeights) []EffortBucket {
	last := journal.DayOf(today)
	first := last.AddDays(-(WeekDays - 1))

	buckets := make([]EffortBucket, WeekDays)
	for i := range buckets {
		day := first.AddDays(i)
		buckets[i] = EffortBucket{
			Day:  day,
			Name: day.Time().Weekday().String()[:3],
			Date: day.String(),
		}
	}
	index := func(day journal.DayKey) (int, bool) {
		if day < first || day > last {
			return 0, false
		}
		return int(day - first), true
	}

	for _, entry := range entries {
		day, ok := entry.DayKey()
		if !ok {
			continue
		}
		if i, ok := index(day); ok {
			buckets[i].Reflection += weights.ReflectionHours
		}
	}
	for _, g := range goals {
		for _, task := range g.Tasks {
			if !task.Completed || task.CompletedAt == nil {
				continue
			}
			if i, ok := index(journal.DayOf(task.CompletedAt.In(today.Location()))); ok {
				buckets[i].DeepWork += weights.DeepWorkHours
			}
		}
	}
	for i := range buckets {
		buckets[i].Total = buckets[i].Reflection + buckets[i].DeepWork
	}
	return buckets
}

// TotalHours sums the buckets' totals, rounded to one decimal.
func TotalHours(buckets []EffortBucket) float64 {
	sum := 0.0
	for _, bucket := range buckets {
		sum += bucket.Total
	}
	return math.Round(sum*10) / 10
}

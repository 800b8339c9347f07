package metrics

import (
	"sort"

	"github.com/amonks/guidex/goal"
)

// CategoryCount is the number of goals in one category.
type CategoryCount struct {
	Category goal.Category `json:"category"`
	Count    int           `json:"count"`
}

// BuildCategoryDistribution counts goals per category regardless of
// status. Categories with no goals do not appear.
func BuildCategoryDistribution(goals []goal.Goal) map[goal.Category]int {
	dist := make(map[goal.Category]int)
	for _, g := range goals {
		dist[g.Category]++
	}
	return dist
}

// SortedCategories orders a distribution by descending count, then name.
func SortedCategories(dist map[goal.Category]int) []CategoryCount {
	out := make([]CategoryCount, 0, len(dist))
	for category, count := range dist {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ReportStats are the headline figures of the weekly report.
type ReportStats struct {
	TotalHours     float64 `json:"total_hours"`
	CompletionRate int     `json:"completion_rate"`
	Streak         int     `json:"streak"`
}

// ComputeReportStats summarizes a week of effort.
func ComputeReportStats(goals []goal.Goal, effort []EffortBucket, streak int) ReportStats {
	if streak < 0 {
		streak = 0
	}
	return ReportStats{
		TotalHours:     TotalHours(effort),
		CompletionRate: OverallProgress(goals),
		Streak:         streak,
	}
}

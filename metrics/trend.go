package metrics

import (
	"sort"
	"time"

	"github.com/amonks/guidex/journal"
)

const (
	// DashboardMoodWindow is the trend length shown on the dashboard.
	DashboardMoodWindow = 10
	// JournalMoodWindow is the trend length shown next to the journal.
	JournalMoodWindow = 7
)

// trendLabelLayout formats a point's label from its creation time.
const trendLabelLayout = "Jan 2"

// MoodPoint is one sample of the mood trend.
type MoodPoint struct {
	Label     string       `json:"label"`
	Sentiment int          `json:"sentiment"`
	Mood      journal.Mood `json:"mood"`
	CreatedAt time.Time    `json:"created_at"`
}

// MoodTrend is a chronological series of mood samples.
type MoodTrend []MoodPoint

// Chartable reports whether the trend has enough points to draw a line.
// Zero or one point means insufficient data.
func (t MoodTrend) Chartable() bool {
	return len(t) > 1
}

// BuildMoodTrend returns the last window entries by created_at, oldest
// first. Entries without created_at sort earliest. A window of zero or
// less keeps every entry.
func BuildMoodTrend(entries []journal.Entry, window int) MoodTrend {
	sorted := make([]journal.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return createdAtOrEpoch(sorted[i]).Before(createdAtOrEpoch(sorted[j]))
	})
	if window > 0 && len(sorted) > window {
		sorted = sorted[len(sorted)-window:]
	}

	trend := make(MoodTrend, 0, len(sorted))
	for _, entry := range sorted {
		label := ""
		if !entry.CreatedAt.IsZero() {
			label = entry.CreatedAt.Format(trendLabelLayout)
		}
		trend = append(trend, MoodPoint{
			Label:     label,
			Sentiment: entry.Sentiment,
			Mood:      entry.Mood,
			CreatedAt: entry.CreatedAt,
		})
	}
	return trend
}

func createdAtOrEpoch(entry journal.Entry) time.Time {
	if entry.CreatedAt.IsZero() {
		return time.Unix(0, 0)
	}
	return entry.CreatedAt
}

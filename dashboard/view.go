package dashboard

import (
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/metrics"
	"github.com/amonks/guidex/profile"
)

// GoalView is a goal with its derived progress.
type GoalView struct {
	goal.Goal
	Progress int `json:"progress"`
	// Pending is set while a toggle on this goal awaits the store.
	Pending bool `json:"pending,omitempty"`
}

// View is a snapshot of everything the dashboard shows.
type View struct {
	Profile         profile.Profile         `json:"profile"`
	Active          []GoalView              `json:"active"`
	Completed       []GoalView              `json:"completed"`
	TopActive       []GoalView              `json:"top_active"`
	OverallProgress int                     `json:"overall_progress"`
	Effort          []metrics.EffortBucket  `json:"weekly_effort"`
	MoodTrend       metrics.MoodTrend       `json:"mood_trend"`
	MoodChartable   bool                    `json:"mood_chartable"`
	Categories      []metrics.CategoryCount `json:"categories"`
	Stats           metrics.ReportStats     `json:"stats"`
	Recent          []journal.Entry         `json:"recent_entries"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// recentEntries is how many journal entries the dashboard lists.
const recentEntries = 5

// View computes the dashboard from the loaded records.
func (b *Board) View() View {
	b.mu.RLock()
	goals := cloneGoals(b.goals)
	entries := append([]journal.Entry(nil), b.entries...)
	prof := b.profile.Clone()
	pending := make(map[string]bool, len(b.pending))
	for id := range b.pending {
		pending[id] = true
	}
	b.mu.RUnlock()

	now := b.now()
	active, completed := metrics.PartitionGoals(goals)
	effort := metrics.BuildWeeklyEffortWeighted(goals, entries, now, b.settings.Weights)
	trend := metrics.BuildMoodTrend(entries, b.settings.MoodWindow)

	view := View{
		Profile:         prof,
		Active:          goalViews(active, pending),
		Completed:       goalViews(completed, pending),
		TopActive:       goalViews(metrics.TopN(active, b.settings.TopActive), pending),
		OverallProgress: metrics.OverallProgress(goals),
		Effort:          effort,
		MoodTrend:       trend,
		MoodChartable:   trend.Chartable(),
		Categories:      metrics.SortedCategories(metrics.BuildCategoryDistribution(goals)),
		Stats:           metrics.ComputeReportStats(goals, effort, prof.Streak),
		Recent:          append([]journal.Entry{}, entries[:min(len(entries), recentEntries)]...),
		GeneratedAt:     now,
	}
	return view
}

// JournalTrend returns the mood trend shown next to the journal.
func (b *Board) JournalTrend(window int) metrics.MoodTrend {
	return metrics.BuildMoodTrend(b.Entries(), window)
}

func goalViews(goals []goal.Goal, pending map[string]bool) []GoalView {
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalView{
			Goal:     g,
			Progress: metrics.GoalProgress(g),
			Pending:  pending[g.ID],
		})
	}
	return out
}

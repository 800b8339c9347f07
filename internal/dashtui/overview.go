package dashtui

import (
	"fmt"
	"strings"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/internal/ui"
	"github.com/amonks/guidex/metrics"
)

// effortBarWidth is the width of the longest bar in the weekly effort chart.
const effortBarWidth = 24

func renderOverview(view dashboard.View) string {
	sections := []string{
		labelStyle.Render(fmt.Sprintf("Welcome back, %s", view.Profile.Name)),
		fmt.Sprintf("Overall progress %s", ui.ProgressBar(view.OverallProgress, 20)),
		fmt.Sprintf("%.1fh this week | %d%% complete | %d day streak",
			view.Stats.TotalHours, view.Stats.CompletionRate, view.Stats.Streak),
		"",
		labelStyle.Render("Weekly effort"),
		renderEffort(view.Effort),
		"",
		labelStyle.Render("Top goals"),
		renderTopGoals(view.TopActive),
		"",
		labelStyle.Render("Mood trend"),
		renderTrend(view),
	}
	return strings.Join(sections, "\n")
}

func renderEffort(buckets []metrics.EffortBucket) string {
	peak := 0.0
	for _, bucket := range buckets {
		peak = max(peak, bucket.Total)
	}
	lines := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		width := 0
		if peak > 0 {
			width = int(bucket.Total / peak * effortBarWidth)
		}
		lines = append(lines, fmt.Sprintf("%-3s %-*s %.1fh", bucket.Name, effortBarWidth, strings.Repeat("#", width), bucket.Total))
	}
	return strings.Join(lines, "\n")
}

func renderTopGoals(goals []dashboard.GoalView) string {
	if len(goals) == 0 {
		return valueMuted.Render("No active goals")
	}
	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		lines = append(lines, fmt.Sprintf("%3d%% %s", g.Progress, g.Title))
	}
	return strings.Join(lines, "\n")
}

func renderTrend(view dashboard.View) string {
	if !view.MoodChartable {
		return valueMuted.Render("Write a few journal entries to see your mood trend")
	}
	parts := make([]string, 0, len(view.MoodTrend))
	for _, point := range view.MoodTrend {
		parts = append(parts, fmt.Sprintf("%s %d", point.Label, point.Sentiment))
	}
	return strings.Join(parts, " > ")
}

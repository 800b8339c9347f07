package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/internal/ui"
	"github.com/amonks/guidex/metrics"
)

const progressBarWidth = 10

func goalHighlighter(goals []goal.Goal) func(string) string {
	return idHighlighter(goal.NewIDIndex(goals).PrefixLengths(), ui.HighlightID)
}

func formatGoalTable(goals []goal.Goal, highlight func(string) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "TITLE", "CATEGORY", "PROGRESS", "TASKS", "DEADLINE", "STATUS"}, len(goals))
	for _, g := range goals {
		builder.AddRow([]string{
			highlight(g.ID),
			ui.TruncateTableCell(g.Title),
			string(g.Category),
			ui.ProgressBar(metrics.GoalProgress(g), progressBarWidth),
			fmt.Sprintf("%d/%d", g.CompletedCount(), len(g.Tasks)),
			ui.FormatDeadline(g.Deadline, now),
			string(metrics.EffectiveStatus(g)),
		})
	}
	return builder.String()
}

func formatGoalDetail(g goal.Goal, highlight func(string) string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ui.Heading(g.Title), ui.Muted("("+highlight(g.ID)+")"))
	fmt.Fprintf(&b, "Category: %s\n", g.Category)
	fmt.Fprintf(&b, "Status:   %s\n", metrics.EffectiveStatus(g))
	fmt.Fprintf(&b, "Progress: %s\n", ui.ProgressBar(metrics.GoalProgress(g), progressBarWidth))
	if g.Deadline != "" {
		fmt.Fprintf(&b, "Deadline: %s (%s)\n", g.Deadline, ui.FormatDeadline(g.Deadline, now))
	}
	fmt.Fprintf(&b, "Created:  %s\n", ui.FormatTimeAgo(g.CreatedAt, now))
	if len(g.Tasks) == 0 {
		b.WriteString("\nNo milestones yet.\n")
		return b.String()
	}
	b.WriteString("\nMilestones:\n")
	for _, task := range g.Tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s  %s\n", mark, task.ID, task.Title)
	}
	return b.String()
}

func goalEmptyListMessage(total int, category string, includeAll bool) string {
	if total == 0 {
		return "No goals yet. Create one with 'gx goal create'."
	}

	category = strings.TrimSpace(category)
	if category != "" {
		return fmt.Sprintf("No goals found in category %s.", category)
	}

	if !includeAll {
		return "No active goals found. Use --all to include completed goals."
	}

	return "No goals found."
}

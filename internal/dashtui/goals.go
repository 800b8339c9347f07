package dashtui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/internal/ui"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type goalItem struct {
	goal dashboard.GoalView
}

func (item goalItem) FilterValue() string {
	return item.goal.Title
}

type goalItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	doneStyle     lipgloss.Style
}

func newGoalItemDelegate() goalItemDelegate {
	return goalItemDelegate{
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
		doneStyle:     valueMuted,
	}
}

func (d goalItemDelegate) Height() int                             { return 1 }
func (d goalItemDelegate) Spacing() int                            { return 0 }
func (d goalItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d goalItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(goalItem)
	if !ok {
		return
	}

	line := formatGoalItem(item, m.Width())
	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	} else if item.goal.Progress == 100 {
		style = d.doneStyle
	}
	fmt.Fprint(w, style.Render(line))
}

func formatGoalItem(item goalItem, width int) string {
	marker := " "
	if item.goal.Pending {
		marker = "*"
	}
	line := fmt.Sprintf("%s%3d%% %s", marker, item.goal.Progress, item.goal.Title)
	return truncateText(line, width)
}

// goalItems lists active goals before completed ones.
func goalItems(view dashboard.View) []list.Item {
	items := make([]list.Item, 0, len(view.Active)+len(view.Completed))
	for _, g := range view.Active {
		items = append(items, goalItem{goal: g})
	}
	for _, g := range view.Completed {
		items = append(items, goalItem{goal: g})
	}
	return items
}

func renderGoalDetail(g dashboard.GoalView, taskIndex int, focused bool, now time.Time) string {
	if g.ID == "" {
		return valueMuted.Render("No goal selected")
	}
	lines := []string{
		labelStyle.Render(g.Title),
		formatDetailRow("ID", g.ID),
		formatDetailRow("Category", string(g.Category)),
		formatDetailRow("Status", string(g.Status)),
		formatDetailRow("Deadline", ui.FormatDeadline(g.Deadline, now)),
		"",
		ui.ProgressBar(g.Progress, 20),
		"",
		labelStyle.Render("Milestones"),
	}
	if len(g.Tasks) == 0 {
		lines = append(lines, valueMuted.Render("No milestones yet"))
	}
	for i, task := range g.Tasks {
		check := "[ ]"
		if task.Completed {
			check = "[x]"
		}
		cursor := "  "
		if focused && i == taskIndex {
			cursor = "> "
		}
		lines = append(lines, cursor+check+" "+task.Title)
	}
	if g.Pending {
		lines = append(lines, "", valueMuted.Render("Saving..."))
	}
	return strings.Join(lines, "\n")
}

func formatDetailRow(label, value string) string {
	return fmt.Sprintf("%s: %s", labelStyle.Render(label), valueMuted.Render(valueOrDash(value)))
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

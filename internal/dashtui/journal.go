package dashtui

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/guidex/journal"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type entryItem struct {
	entry journal.Entry
}

func (item entryItem) FilterValue() string {
	return item.entry.Summary
}

type entryItemDelegate struct {
	selectedStyle lipgloss.Style
}

func newEntryItemDelegate() entryItemDelegate {
	return entryItemDelegate{
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")),
	}
}

func (d entryItemDelegate) Height() int                             { return 1 }
func (d entryItemDelegate) Spacing() int                            { return 0 }
func (d entryItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}
	style := moodStyle(item.entry.Mood)
	if index == m.Index() {
		style = d.selectedStyle
	}
	line := fmt.Sprintf("%s  %-11s %s", item.entry.Date, item.entry.Mood, item.entry.Summary)
	fmt.Fprint(w, style.Render(truncateText(line, m.Width())))
}

func entryItems(entries []journal.Entry) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryItem{entry: entry})
	}
	return items
}

func renderEntryDetail(entry journal.Entry, width int) string {
	if entry.ID == "" {
		return valueMuted.Render("No entry selected")
	}
	lines := []string{
		labelStyle.Render(entry.Date),
		formatDetailRow("Mood", string(entry.Mood)),
		formatDetailRow("Sentiment", fmt.Sprintf("%d/100", entry.Sentiment)),
		formatDetailRow("Summary", entry.Summary),
		"",
		wordwrap.String(entry.Content, max(width, 20)),
	}
	return strings.Join(lines, "\n")
}

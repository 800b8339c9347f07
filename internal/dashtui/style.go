package dashtui

import (
	"github.com/amonks/guidex/journal"
	"github.com/charmbracelet/lipgloss"
)

var (
	paneBorder = lipgloss.RoundedBorder()

	tabBarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	tabActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)
	helpBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	paneStyle       = lipgloss.NewStyle().Border(paneBorder).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	paneActiveStyle = paneStyle.BorderForeground(lipgloss.Color("62"))
	modalStyle      = lipgloss.NewStyle().Border(paneBorder).BorderForeground(lipgloss.Color("62")).Padding(1, 2)

	labelStyle         = lipgloss.NewStyle().Bold(true)
	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	focusActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("28")).Padding(0, 1)
	focusIdleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1)
)

// moodColors tints journal rows. Labels outside the known set stay plain.
var moodColors = map[journal.Mood]lipgloss.Color{
	journal.MoodCalm:    lipgloss.Color("73"),
	journal.MoodFocused: lipgloss.Color("69"),
	journal.MoodAnxious: lipgloss.Color("173"),
	journal.MoodExcited: lipgloss.Color("178"),
	journal.MoodTired:   lipgloss.Color("245"),
}

func moodStyle(mood journal.Mood) lipgloss.Style {
	color, ok := moodColors[journal.ParseMood(string(mood))]
	if !ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}
	return lipgloss.NewStyle().Foreground(color)
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Heading renders a section title.
func Heading(text string) string {
	return headingStyle.Render(text)
}

// Muted renders secondary text.
func Muted(text string) string {
	return mutedStyle.Render(text)
}

// ProgressBar renders percent (0..100) as a fixed-width bar followed by
// the percentage, e.g. "[#####-----] 50%".
func ProgressBar(percent, width int) string {
	if width < 1 {
		width = 1
	}
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	bar := barFillStyle.Render(strings.Repeat("#", filled)) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("[%s] %d%%", bar, percent)
}

package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// idRenderer follows stdout's color profile, so highlighting is dropped
// for pipes, NO_COLOR, and dumb terminals.
var idRenderer = lipgloss.NewRenderer(os.Stdout)

var idPrefixStyle = idRenderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// HighlightID returns an ID with its unique prefix highlighted.
func HighlightID(id string, prefixLen int) string {
	if prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// PrefixLength looks up id's unique prefix length case-insensitively.
// Unknown IDs report zero.
func PrefixLength(lengths map[string]int, id string) int {
	if id == "" || lengths == nil {
		return 0
	}
	return lengths[strings.ToLower(id)]
}

package main

import (
	"os"
	"strings"

	"github.com/amonks/guidex/internal/markdown"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

// terminalWidth is stdout's width, or 80 when stdout is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

func renderMarkdownOrDash(value string, width int) string {
	if width < 1 {
		width = 1
	}
	formatted := string(markdown.Render(width, 0, []byte(value)))
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return formatted
}

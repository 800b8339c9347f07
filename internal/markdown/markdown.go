// Package markdown renders mentor replies, goal notes, and journal entries
// for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/guidex/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown text for terminal output. Blank input renders
// as nil. Lines are indented by indent spaces and wrapped to width.
func Render(width, indent int, input []byte) []byte {
	return SafeRender(width, indent, input)
}

// SafeRender is Render that falls back to the normalized source text when
// the renderer fails or panics.
func SafeRender(width, indent int, input []byte) []byte {
	value := normalize(input)
	if value == "" {
		return nil
	}
	renderWidth := max(max(width, 1)-max(indent, 0), 1)

	rendered := renderWith(rendererFor(renderWidth), value)
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	return []byte(indentBlock(rendered, indent))
}

func normalize(input []byte) string {
	if len(input) == 0 {
		return ""
	}
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return value
}

func renderWith(r renderer, value string) (out string) {
	if r == nil {
		return value
	}
	defer func() {
		if recover() != nil {
			out = value
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return value
	}
	return formatted
}

func rendererFor(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	style.Task.Ticked = "[x] "
	style.Task.Unticked = "[ ] "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func indentBlock(value string, spaces int) string {
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

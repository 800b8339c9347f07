package editor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/guidex/internal/validation"
	"github.com/amonks/guidex/journal"
)

// EntryData represents the data used to render the journal template.
type EntryData struct {
	IsUpdate bool
	Mood     string
	Content  string
}

// DataFromEntry creates EntryData from an existing entry.
func DataFromEntry(e journal.Entry) EntryData {
	return EntryData{IsUpdate: true, Mood: string(e.Mood), Content: e.Content}
}

var entryTemplate = template.Must(template.New("entry").Funcs(template.FuncMap{
	"moods": func() string { return validation.FormatValidValues(journal.KnownMoods()) },
}).Parse(`mood = {{ printf "%q" .Mood }} # {{ moods }}
---
{{ .Content }}
`))

// RenderEntryTOML renders the entry for editing.
func RenderEntryTOML(data EntryData) (string, error) {
	if data.Mood == "" {
		data.Mood = string(journal.DefaultMood)
	}
	var buf bytes.Buffer
	if err := entryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedEntry is the result of editing a journal entry.
type ParsedEntry struct {
	Mood    string `toml:"mood"`
	Content string `toml:"-"`
}

// ParseEntryTOML parses the editor output.
func ParseEntryTOML(content string) (*ParsedEntry, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedEntry
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Content = strings.TrimSpace(body)
	if err := journal.ValidateContent(parsed.Content); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// EditEntry opens the editor for a journal entry.
func EditEntry(data EntryData) (*ParsedEntry, error) {
	content, err := RenderEntryTOML(data)
	if err != nil {
		return nil, err
	}
	edited, err := editContent("journal", content)
	if err != nil {
		return nil, err
	}
	return ParseEntryTOML(edited)
}

// Apply copies the edited fields onto e.
func (p *ParsedEntry) Apply(e *journal.Entry) {
	e.Content = p.Content
	if mood := journal.ParseMood(p.Mood); mood != "" {
		e.Mood = mood
	}
}

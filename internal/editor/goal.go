package editor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/internal/validation"
)

// GoalData represents the data used to render the goal template.
type GoalData struct {
	// IsUpdate is true when editing an existing goal.
	IsUpdate bool
	ID       string
	Title    string
	Deadline string
	Category string
	// Status is only rendered for updates.
	Status string
	// Milestones are listed in the body when creating.
	Milestones []string
	// Categories lists the allowed categories in a comment.
	Categories []goal.Category
}

// DefaultGoalData returns GoalData for a new goal.
func DefaultGoalData(categories []goal.Category, category goal.Category) GoalData {
	return GoalData{Category: string(category), Categories: categories}
}

// DataFromGoal creates GoalData from an existing goal for editing.
func DataFromGoal(g goal.Goal, categories []goal.Category) GoalData {
	return GoalData{
		IsUpdate:   true,
		ID:         g.ID,
		Title:      g.Title,
		Deadline:   g.Deadline,
		Category:   string(g.Category),
		Status:     string(g.Status),
		Categories: categories,
	}
}

var goalTemplate = template.Must(template.New("goal").Funcs(template.FuncMap{
	"join":     validation.FormatValidValues[goal.Category],
	"statuses": func() string { return validation.FormatValidValues(goal.ValidStatuses()) },
}).Parse(`title = {{ printf "%q" .Title }}
deadline = {{ printf "%q" .Deadline }} # YYYY-MM-DD, optional
category = {{ printf "%q" .Category }} # {{ join .Categories }}
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # {{ statuses }}
{{- end }}
---
{{- if not .IsUpdate }}
# One milestone per line.
{{- range .Milestones }}
- {{ . }}
{{- end }}
{{- end }}
`))

// RenderGoalTOML renders the goal data for editing.
func RenderGoalTOML(data GoalData) (string, error) {
	var buf bytes.Buffer
	if err := goalTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedGoal is the result of editing a goal.
type ParsedGoal struct {
	Title    string  `toml:"title"`
	Deadline string  `toml:"deadline"`
	Category string  `toml:"category"`
	Status   *string `toml:"status"`
	// Milestones come from the body, one per line.
	Milestones []string `toml:"-"`
}

// ParseGoalTOML parses the editor output. The category is checked later
// against the configured set.
func ParseGoalTOML(content string) (*ParsedGoal, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedGoal
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Deadline = strings.TrimSpace(parsed.Deadline)
	parsed.Category = strings.TrimSpace(parsed.Category)
	if parsed.Status != nil {
		normalized := strings.ToLower(strings.TrimSpace(*parsed.Status))
		parsed.Status = &normalized
	}
	parsed.Milestones = parseMilestones(body)

	if err := goal.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if err := goal.ValidateDeadline(parsed.Deadline); err != nil {
		return nil, err
	}
	if parsed.Status != nil {
		if err := goal.ValidateStatus(goal.Status(*parsed.Status)); err != nil {
			return nil, err
		}
	}
	return &parsed, nil
}

func parseMilestones(body string) []string {
	var milestones []string
	for line := range strings.Lines(body) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" && line != "-" {
			milestones = append(milestones, line)
		}
	}
	return milestones
}

// EditGoal opens the editor with pre-populated data and returns the parsed result.
func EditGoal(data GoalData) (*ParsedGoal, error) {
	content, err := RenderGoalTOML(data)
	if err != nil {
		return nil, err
	}
	edited, err := editContent("goal", content)
	if err != nil {
		return nil, err
	}
	return ParseGoalTOML(edited)
}

// Apply copies the edited fields onto g. Milestones are only added to a
// goal that has not been saved yet; the goal composer assigns task IDs.
func (p *ParsedGoal) Apply(g *goal.Goal) {
	g.Title = p.Title
	g.Deadline = p.Deadline
	if p.Category != "" {
		g.Category = goal.Category(p.Category)
	}
	if p.Status != nil {
		g.Status = goal.Status(*p.Status)
	}
	if g.ID != "" {
		return
	}
	for _, title := range p.Milestones {
		g.Tasks = append(g.Tasks, goal.Task{Title: title})
	}
}

package editor

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/guidex/profile"
)

var profileTemplate = template.Must(template.New("profile").Parse(`name = {{ printf "%q" .Name }}
title = {{ printf "%q" .Title }}
location = {{ printf "%q" .Location }}
website = {{ printf "%q" .Website }}
---
{{ .Bio }}
`))

// RenderProfileTOML renders the profile for editing. The bio is the body.
func RenderProfileTOML(p profile.Profile) (string, error) {
	var buf bytes.Buffer
	if err := profileTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedProfile is the result of editing a profile.
type ParsedProfile struct {
	Name     string `toml:"name"`
	Title    string `toml:"title"`
	Location string `toml:"location"`
	Website  string `toml:"website"`
	Bio      string `toml:"-"`
}

// ParseProfileTOML parses the editor output.
func ParseProfileTOML(content string) (*ParsedProfile, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedProfile
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Bio = strings.TrimSpace(body)
	if strings.TrimSpace(parsed.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	return &parsed, nil
}

// EditProfile opens the editor for a profile.
func EditProfile(p profile.Profile) (*ParsedProfile, error) {
	content, err := RenderProfileTOML(p)
	if err != nil {
		return nil, err
	}
	edited, err := editContent("profile", content)
	if err != nil {
		return nil, err
	}
	return ParseProfileTOML(edited)
}

// Apply copies the edited fields onto p.
func (parsed *ParsedProfile) Apply(p *profile.Profile) {
	p.Name = parsed.Name
	p.Title = parsed.Title
	p.Location = parsed.Location
	p.Website = parsed.Website
	p.Bio = parsed.Bio
}

// Package profile models the per-owner user profile.
package profile

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	internalstrings "github.com/amonks/guidex/internal/strings"
)

// ErrEmptyInterest is returned when an interest is blank.
var ErrEmptyInterest = errors.New("interest cannot be empty")

// DefaultName is used when no name can be derived from the email.
const DefaultName = "Explorer"

// InitialStreak is the streak a newly created profile starts with.
const InitialStreak = 1

const avatarURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Profile is the single profile record of an owner. ID equals the owner ID.
type Profile struct {
	ID              string    `json:"id" validate:"required"`
	Name            string    `json:"name" validate:"notblank"`
	Email           string    `json:"email,omitempty"`
	Title           string    `json:"title,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Location        string    `json:"location,omitempty"`
	Website         string    `json:"website,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	Streak          int       `json:"streak" validate:"min=0"`
	OverallProgress int       `json:"overall_progress"`
	Interests       []string  `json:"interests"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecordID returns the profile's identifier.
func (p Profile) RecordID() string { return p.ID }

// RecordCreatedAt returns the profile's creation time.
func (p Profile) RecordCreatedAt() time.Time { return p.CreatedAt }

// UnmarshalJSON decodes a profile. The deprecated camelCase
// "overallProgress" key is read when "overall_progress" is absent.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var decoded struct {
		plain
		LegacyOverallProgress *int `json:"overallProgress"`
		OverallProgress       *int `json:"overall_progress"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Profile(decoded.plain)
	switch {
	case decoded.OverallProgress != nil:
		p.OverallProgress = *decoded.OverallProgress
	case decoded.LegacyOverallProgress != nil:
		p.OverallProgress = *decoded.LegacyOverallProgress
	}
	return nil
}

// Default builds the profile created lazily on an owner's first access.
func Default(ownerID, email string, now time.Time) Profile {
	return Profile{
		ID:        ownerID,
		Name:      NameFromEmail(email),
		Email:     email,
		Avatar:    avatarURL + ownerID,
		Streak:    InitialStreak,
		Interests: []string{},
		CreatedAt: now,
	}
}

// NameFromEmail returns the local part of email, or DefaultName.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return DefaultName
	}
	return local
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	if p.Interests != nil {
		p.Interests = slices.Clone(p.Interests)
	}
	return p
}

// HasInterest reports whether interest is already present.
func (p Profile) HasInterest(interest string) bool {
	return slices.Contains(p.Interests, internalstrings.NormalizeWhitespace(interest))
}

// AddInterest returns a copy of p with interest appended. Adding an
// interest that is already present returns p unchanged.
func (p Profile) AddInterest(interest string) (Profile, error) {
	interest = internalstrings.NormalizeWhitespace(interest)
	if interest == "" {
		return Profile{}, ErrEmptyInterest
	}
	out := p.Clone()
	if out.HasInterest(interest) {
		return out, nil
	}
	out.Interests = append(out.Interests, interest)
	return out, nil
}

// RemoveInterest returns a copy of p without interest.
func (p Profile) RemoveInterest(interest string) Profile {
	out := p.Clone()
	interest = internalstrings.NormalizeWhitespace(interest)
	out.Interests = slices.DeleteFunc(out.Interests, func(existing string) bool {
		return existing == interest
	})
	return out
}

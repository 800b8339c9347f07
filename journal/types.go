// Package journal models reflective journal entries.
package journal

import (
	"strings"
	"time"
)

// Mood is the emotional label attached to an entry. Entries may also carry
// labels outside KnownMoods when they come from sentiment analysis.
type Mood string

const (
	MoodCalm    Mood = "Calm"
	MoodFocused Mood = "Focused"
	MoodAnxious Mood = "Anxious"
	MoodExcited Mood = "Excited"
	MoodTired   Mood = "Tired"
)

// KnownMoods returns the moods offered for manual selection.
func KnownMoods() []Mood {
	return []Mood{MoodCalm, MoodFocused, MoodAnxious, MoodExcited, MoodTired}
}

// ParseMood matches value against KnownMoods case-insensitively. Unknown
// labels are returned trimmed but otherwise unchanged.
func ParseMood(value string) Mood {
	value = strings.TrimSpace(value)
	for _, mood := range KnownMoods() {
		if strings.EqualFold(string(mood), value) {
			return mood
		}
	}
	return Mood(value)
}

const (
	// DefaultMood is used when neither the user nor analysis picked one.
	DefaultMood = MoodCalm
	// DefaultSentiment is used when no analysis is available.
	DefaultSentiment = 75
	// DefaultSummary is used when no analysis is available.
	DefaultSummary = "Self-reflective session."
)

// DateLayout is the display format of Entry.Date.
const DateLayout = "Jan 2, 2006"

// Entry is one journal entry.
type Entry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Day       DayKey    `json:"day,omitempty"`
	Content   string    `json:"content" validate:"notblank"`
	Mood      Mood      `json:"mood"`
	Sentiment int       `json:"sentiment" validate:"min=0,max=100"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID returns the entry's identifier.
func (e Entry) RecordID() string { return e.ID }

// RecordCreatedAt returns the entry's creation time.
func (e Entry) RecordCreatedAt() time.Time { return e.CreatedAt }

// Clone returns a copy of e. Entries hold no reference fields.
func (e Entry) Clone() Entry { return e }

// DayKey returns the calendar day the entry is bucketed under. Entries
// written before day keys existed fall back to their date label.
func (e Entry) DayKey() (DayKey, bool) {
	if e.Day != 0 {
		return e.Day, true
	}
	if e.Date != "" {
		if parsed, err := time.Parse(DateLayout, e.Date); err == nil {
			return DayOf(parsed), true
		}
	}
	return 0, false
}

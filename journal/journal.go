package journal

import (
	"errors"
	"strings"
	"time"

	"github.com/amonks/guidex/internal/ids"
	internalstrings "github.com/amonks/guidex/internal/strings"
)

var (
	// ErrEmptyContent is returned when an entry has no content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEntryNotFound is returned when an entry with the given ID doesn't exist.
	ErrEntryNotFound = errors.New("journal entry not found")
)

// ValidateContent checks that content is not blank.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

// ClampSentiment limits a score to [0,100].
func ClampSentiment(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// Stamp fills in the fields an entry gets when it is first saved: ID,
// created_at, date label, day key, and the no-analysis defaults. Fields
// already set are kept, except that the date label and day key always
// follow created_at.
func (e Entry) Stamp(now time.Time) Entry {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.Content = internalstrings.NormalizeContent(e.Content)
	if e.ID == "" {
		e.ID = ids.GenerateWithTimestamp(e.Content, e.CreatedAt, ids.DefaultLength)
	}
	local := e.CreatedAt.In(now.Location())
	e.Date = local.Format(DateLayout)
	e.Day = DayOf(local)
	if e.Mood == "" {
		e.Mood = DefaultMood
	}
	if e.Summary == "" {
		e.Summary = DefaultSummary
		if e.Sentiment == 0 {
			e.Sentiment = DefaultSentiment
		}
	}
	e.Sentiment = ClampSentiment(e.Sentiment)
	return e
}

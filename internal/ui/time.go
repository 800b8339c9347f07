package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatTimeAgo describes then relative to now, like "2 minutes ago".
// The zero time renders as "-".
func FormatTimeAgo(then, now time.Time) string {
	if then.IsZero() {
		return "-"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

const deadlineLayout = "2006-01-02"

// FormatDeadline describes a YYYY-MM-DD deadline relative to now's
// calendar day: "today", "in 3d", or "2d overdue". Blank or unparseable
// deadlines render as "-".
func FormatDeadline(deadline string, now time.Time) string {
	due, err := time.ParseInLocation(deadlineLayout, deadline, now.Location())
	if err != nil {
		return "-"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch days := int(due.Sub(today).Round(time.Hour).Hours() / 24); {
	case days == 0:
		return "today"
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}

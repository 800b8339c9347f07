package goal

import (
	"fmt"

	"github.com/amonks/guidex/internal/ids"
)

// IDIndex indexes goal IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of goals.
func NewIDIndex(goals []Goal) IDIndex {
	goalIDs := make([]string, 0, len(goals))
	for _, g := range goals {
		goalIDs = append(goalIDs, g.ID)
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(goalIDs)}
}

// Resolve returns the full goal ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrGoalNotFound
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrGoalNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousGoalIDPrefix, prefix)
	}

	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(index.ids)
}

package metrics

import (
	"testing"
	"time"

	"github.com/amonks/guidex/journal"
)

func TestBuildMoodTrend(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []journal.Entry{
		{ID: "c", Sentiment: 30, Mood: journal.MoodTired, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "a", Sentiment: 10, Mood: journal.MoodCalm, CreatedAt: base},
		{ID: "missing", Sentiment: 5},
		{ID: "b", Sentiment: 20, Mood: journal.MoodFocused, CreatedAt: base.Add(24 * time.Hour), Date: "Dec 25, 1999"},
	}

	trend := BuildMoodTrend(entries, 3)
	if len(trend) != 3 {
		t.Fatalf("expected 3 points, got %d", len(trend))
	}
	wantSentiments := []int{10, 20, 30}
	wantLabels := []string{"Mar 1", "Mar 2", "Mar 3"}
	for i, point := range trend {
		if point.Sentiment != wantSentiments[i] {
			t.Errorf("point %d: expected sentiment %d, got %d", i, wantSentiments[i], point.Sentiment)
		}
		if point.Label != wantLabels[i] {
			t.Errorf("point %d: expected label %q, got %q", i, wantLabels[i], point.Label)
		}
	}
	if !trend.Chartable() {
		t.Errorf("expected 3 points to be chartable")
	}

	all := BuildMoodTrend(entries, 0)
	if len(all) != 4 || all[0].Sentiment != 5 {
		t.Errorf("expected entry without created_at first, got %+v", all)
	}
}

func TestBuildMoodTrendInsufficientData(t *testing.T) {
	if trend := BuildMoodTrend(nil, JournalMoodWindow); trend.Chartable() || len(trend) != 0 {
		t.Errorf("expected empty unchartable trend, got %+v", trend)
	}
	one := []journal.Entry{{ID: "a", CreatedAt: time.Now()}}
	if trend := BuildMoodTrend(one, JournalMoodWindow); trend.Chartable() {
		t.Errorf("expected single point to be unchartable")
	}
}

func TestBuildMoodTrendDoesNotReorderInput(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []journal.Entry{
		{ID: "new", CreatedAt: base.Add(time.Hour)},
		{ID: "old", CreatedAt: base},
	}
	BuildMoodTrend(entries, DashboardMoodWindow)
	if entries[0].ID != "new" {
		t.Errorf("expected input order untouched, got %s first", entries[0].ID)
	}
}

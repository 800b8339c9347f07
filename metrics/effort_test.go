package metrics

import (
	"testing"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
)

func TestBuildWeeklyEffortEmpty(t *testing.T) {
	today := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
	buckets := BuildWeeklyEffort(nil, nil, today)

	if len(buckets) != WeekDays {
		t.Fatalf("expected %d buckets, got %d", WeekDays, len(buckets))
	}
	for i, bucket := range buckets {
		if bucket.Total != 0 {
			t.Errorf("bucket %d: expected zero total, got %v", i, bucket.Total)
		}
		if i > 0 && bucket.Day != buckets[i-1].Day+1 {
			t.Errorf("bucket %d: expected consecutive days", i)
		}
	}
	if last := buckets[WeekDays-1]; last.Day != journal.DayOf(today) || last.Name != "Wed" || last.Date != "Mar 5, 2025" {
		t.Errorf("expected last bucket to be today, got %+v", last)
	}
	if first := buckets[0]; first.Name != "Thu" || first.Date != "Feb 27, 2025" {
		t.Errorf("expected first bucket Thu Feb 27, got %+v", first)
	}
}

func TestBuildWeeklyEffortCounts(t *testing.T) {
	today := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
	yesterday := today.Add(-24 * time.Hour)
	longAgo := today.Add(-30 * 24 * time.Hour)

	entries := []journal.Entry{
		journal.Entry{Content: "a", CreatedAt: today}.Stamp(today),
		journal.Entry{Content: "b", CreatedAt: today.Add(-time.Hour)}.Stamp(today),
		journal.Entry{Content: "c", CreatedAt: yesterday}.Stamp(today),
		journal.Entry{Content: "d", CreatedAt: longAgo}.Stamp(today),
		{ID: "legacy", Date: "Mar 4, 2025"},
		{ID: "garbage", Date: "not a date"},
	}
	g := goal.Goal{ID: "g", Tasks: []goal.Task{
		{ID: "1", Completed: true, CompletedAt: &today},
		{ID: "2", Completed: true, CompletedAt: &yesterday},
		{ID: "3", Completed: true, CompletedAt: &longAgo},
		{ID: "4", Completed: true},
		{ID: "5"},
	}}

	buckets := BuildWeeklyEffort([]goal.Goal{g}, entries, today)
	last := buckets[6]
	prev := buckets[5]

	if last.Reflection != 1.0 || last.DeepWork != 1.5 || last.Total != 2.5 {
		t.Errorf("unexpected today bucket %+v", last)
	}
	if prev.Reflection != 1.0 || prev.DeepWork != 1.5 || prev.Total != 2.5 {
		t.Errorf("unexpected yesterday bucket %+v", prev)
	}
	for i := 0; i < 5; i++ {
		if buckets[i].Total != 0 {
			t.Errorf("bucket %d: expected zero, got %+v", i, buckets[i])
		}
	}
	if got := TotalHours(buckets); got != 5.0 {
		t.Errorf("expected 5.0 total hours, got %v", got)
	}
}

func TestBuildWeeklyEffortUsesTodayLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	today := time.Date(2025, 3, 5, 8, 0, 0, 0, tokyo)
	// 22:00 UTC on Mar 4 is 07:00 on Mar 5 in Tokyo.
	completedAt := time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC)
	g := goal.Goal{Tasks: []goal.Task{{Completed: true, CompletedAt: &completedAt}}}

	buckets := BuildWeeklyEffort([]goal.Goal{g}, nil, today)
	if buckets[6].DeepWork != 1.5 {
		t.Fatalf("expected task credited to today in Tokyo, got %+v", buckets)
	}
}

func TestBuildWeeklyEffortWeighted(t *testing.T) {
	today := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC)
	entries := []journal.Entry{journal.Entry{Content: "a"}.Stamp(today)}
	buckets := BuildWeeklyEffortWeighted(nil, entries, today, EffortWeights{ReflectionHours: 2})
	if buckets[6].Total != 2 {
		t.Fatalf("expected custom weight, got %+v", buckets[6])
	}
}

package metrics

import "github.com/amonks/guidex/goal"

// GoalProgress returns the percentage of g's tasks that are complete,
// rounded half up. A goal with no tasks is at 0. A goal with any open task
// never reports 100, even when rounding would reach it.
func GoalProgress(g goal.Goal) int {
	total := len(g.Tasks)
	if total == 0 {
		return 0
	}
	done := g.CompletedCount()
	progress := roundPercent(done, total)
	if progress == 100 && done < total {
		return 99
	}
	return progress
}

// IsEffectivelyComplete reports whether every task of g is done.
func IsEffectivelyComplete(g goal.Goal) bool {
	return GoalProgress(g) == 100
}

// EffectiveStatus returns the status g's tasks imply: completed when all
// tasks are done, active otherwise.
func EffectiveStatus(g goal.Goal) goal.Status {
	if IsEffectivelyComplete(g) {
		return goal.StatusCompleted
	}
	return goal.StatusActive
}

// PartitionGoals splits goals into active and completed, keeping input
// order. A goal is active only when its stored status is active and it is
// not effectively complete. Everything else, on-hold goals included, is
// completed.
func PartitionGoals(goals []goal.Goal) (active, completed []goal.Goal) {
	active = []goal.Goal{}
	completed = []goal.Goal{}
	for _, g := range goals {
		if g.Status == goal.StatusActive && !IsEffectivelyComplete(g) {
			active = append(active, g)
			continue
		}
		completed = append(completed, g)
	}
	return active, completed
}

// TopN returns at most the first n goals without reordering.
func TopN(goals []goal.Goal, n int) []goal.Goal {
	if n < 0 {
		n = 0
	}
	if len(goals) <= n {
		return goals
	}
	return goals[:n]
}

// OverallProgress returns the flat share of completed tasks across all
// goals. Each task weighs the same regardless of which goal owns it.
func OverallProgress(goals []goal.Goal) int {
	total, done := 0, 0
	for _, g := range goals {
		total += len(g.Tasks)
		done += g.CompletedCount()
	}
	if total == 0 {
		return 0
	}
	return roundPercent(done, total)
}

// roundPercent computes round(100*done/total) with halves rounded up,
// using integer arithmetic. total must be positive.
func roundPercent(done, total int) int {
	return (200*done + total) / (2 * total)
}

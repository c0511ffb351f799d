package calculator

import (
	"slices"

	"github.com/mmynk/pocketsage/internal/date"
)

// HabitEntry is one recorded day of a habit. Any Value > 0 counts as completed.
type HabitEntry struct {
	Date  date.Date
	Value int
}

// completedDays returns the set of days with a completed entry. Duplicates collapse.
func completedDays(entries []HabitEntry) map[date.Date]struct{} {
	days := make(map[date.Date]struct{}, len(entries))
	for _, e := range entries {
		if e.Value > 0 {
			days[e.Date] = struct{}{}
		}
	}
	return days
}

// ComputeStreaks returns the run of completed days ending today and the longest run
// anywhere in entries.
//
// The current streak requires today itself: a run that ended yesterday counts as 0.
func ComputeStreaks(entries []HabitEntry, today date.Date) (current, longest int) {
	completed := completedDays(entries)
	if len(completed) == 0 {
		return 0, 0
	}

	for day := today; ; day = day.Add(-1) {
		if _, ok := completed[day]; !ok {
			break
		}
		current++
	}

	days := make([]date.Date, 0, len(completed))
	for d := range completed {
		days = append(days, d)
	}
	slices.SortFunc(days, date.Date.Compare)

	run := 0
	for i, d := range days {
		if i > 0 && days[i-1].Add(1) == d {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return current, longest
}

// CompletionRate returns the share of days in [from, to] with a completed entry.
// An empty or inverted range gives 0.
func CompletionRate(entries []HabitEntry, from, to date.Date) float64 {
	if to.Before(from) {
		return 0
	}
	completed := completedDays(entries)
	total := from.DaysUntil(to) + 1
	done := 0
	for day := from; !day.After(to); day = day.Add(1) {
		if _, ok := completed[day]; ok {
			done++
		}
	}
	return float64(done) / float64(total)
}

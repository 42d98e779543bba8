package achievement

import (
	"sort"
	"time"
)

// StatusFilter selects catalog entries by lifecycle state, optionally
// scoped to a trailing completion window.
type StatusFilter string

const (
	FilterAll            StatusFilter = "all"
	FilterCompleted      StatusFilter = "completed"
	FilterInProgress     StatusFilter = "inProgress"
	FilterNotStarted     StatusFilter = "notStarted"
	FilterCompletedWeek  StatusFilter = "completedWeek"
	FilterCompletedMonth StatusFilter = "completedMonth"
	FilterCompletedYear  StatusFilter = "completedYear"
)

// Filter returns the entries passing both the status filter and the game
// type filter, preserving catalog order. An unrecognized status filter
// behaves like "all": the query layer is presentation plumbing and an odd
// query parameter should show everything rather than nothing.
//
// The gameType filter "Any" passes every entry; any other value requires
// the rule's game type criterion to name exactly that value, so wildcard
// rules appear only under the "Any" filter.
func Filter(entries []Entry, status StatusFilter, gameType string, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !statusMatches(e.Progress, status, now) {
			continue
		}
		if gameType != anySentinel && !e.Rule.GameType.Is(gameType) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func statusMatches(p Progress, status StatusFilter, now time.Time) bool {
	switch status {
	case FilterCompleted:
		return p.Status == StatusCompleted
	case FilterInProgress:
		return p.Status == StatusInProgress
	case FilterNotStarted:
		return p.Status == StatusNotStarted
	case FilterCompletedWeek:
		return completedAfter(p, now.AddDate(0, 0, -7))
	case FilterCompletedMonth:
		return completedAfter(p, now.AddDate(0, -1, 0))
	case FilterCompletedYear:
		return completedAfter(p, now.AddDate(-1, 0, 0))
	}
	return true
}

// completedAfter reports a completion strictly inside the trailing window:
// a completion exactly on the cutoff is out.
func completedAfter(p Progress, cutoff time.Time) bool {
	return p.Status == StatusCompleted &&
		p.LastCompletedAt != nil &&
		p.LastCompletedAt.After(cutoff)
}

// SortKey orders catalog entries for presentation.
type SortKey string

const (
	SortDifficulty     SortKey = "difficulty"
	SortPoints         SortKey = "points"
	SortProgress       SortKey = "progress"
	SortCompletionDate SortKey = "completionDate"
)

// Sort returns a new ordered slice; entries is left untouched. Equal keys
// keep their catalog order. An unrecognized key returns the entries in
// catalog order.
func Sort(entries []Entry, key SortKey) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	var less func(a, b Entry) bool
	switch key {
	case SortDifficulty:
		less = func(a, b Entry) bool {
			return a.Rule.Difficulty.order() < b.Rule.Difficulty.order()
		}
	case SortPoints:
		less = func(a, b Entry) bool {
			return a.Rule.Points > b.Rule.Points
		}
	case SortProgress:
		// Closest to completion first: fewest passing matches remaining.
		// A 0-of-1 rule outranks 1-of-10, which outranks 0-of-10.
		less = func(a, b Entry) bool {
			return remaining(a) < remaining(b)
		}
	case SortCompletionDate:
		// Most recent completion first; never-completed entries sort last
		// in their original relative order.
		less = func(a, b Entry) bool {
			at, bt := a.Progress.LastCompletedAt, b.Progress.LastCompletedAt
			if at == nil {
				return false
			}
			if bt == nil {
				return true
			}
			return at.After(*bt)
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// remaining is the number of passing matches still needed. A rule with a
// non-positive requirement reads as having made no progress and sorts last.
func remaining(e Entry) int {
	if e.Rule.TimesRequired < 1 {
		return int(^uint(0) >> 1)
	}
	return e.Rule.TimesRequired - e.Progress.Current
}

package achievement

import (
	"fmt"
	"time"
)

// Advance applies one qualifying match to prog and returns the updated
// progress plus the user-facing notification, or "" when nothing changed.
// It never fails on a validated rule; malformed rules are rejected by
// Validate before they reach the catalog.
//
// Advance is idempotent under a redundant call on a locked rule: the
// processor already excludes locked entries, but a stale caller must not
// double-count.
func Advance(rule *Rule, prog Progress, matchTime, now time.Time) (Progress, string) {
	if prog.Locked {
		return prog, ""
	}

	// Matches played before the rule existed only count when the rule
	// opts into historical data. The skip is silent: no notification,
	// no timestamp churn.
	if !rule.AllowHistorical && matchTime.Before(rule.CreatedAt) {
		return prog, ""
	}

	prog.Current++
	prog.UpdatedAt = now

	if prog.Current < rule.TimesRequired {
		prog.Status = StatusInProgress
		return prog, fmt.Sprintf("Progress made on achievement %q", rule.Title)
	}

	prog.Status = StatusCompleted
	prog.Completions++
	completed := now
	prog.LastCompletedAt = &completed
	if rule.Repeatable {
		prog.Current = 0
	} else {
		prog.Locked = true
	}
	return prog, fmt.Sprintf("Achievement %q completed!", rule.Title)
}

package achievement

import (
	"time"

	"github.com/Starman965/mongoose-sub000/internal/match"
)

// Result is the outcome of evaluating the catalog against one match.
// Updated[i] produced Notifications[i]; both follow catalog order, with no
// reordering or prioritization.
type Result struct {
	Updated       []Entry  `json:"updated"`
	Notifications []string `json:"notifications"`
}

// Process evaluates every unlocked catalog entry against rec and advances
// the ones whose criteria pass. Entries that do not match, or whose
// advancement produced no notification (e.g. the historical gate), are left
// out of the result. Each entry is touched at most once per call.
//
// Process performs no I/O and does not mutate catalog; the caller persists
// each updated entry and presents the notifications.
func Process(catalog []Entry, rec *match.Record, now time.Time) Result {
	var res Result
	for _, e := range catalog {
		if e.Progress.Locked {
			continue
		}
		if !Matches(&e.Rule, rec) {
			continue
		}
		prog, note := Advance(&e.Rule, e.Progress, rec.Timestamp, now)
		if note == "" {
			continue
		}
		e.Progress = prog
		res.Updated = append(res.Updated, e)
		res.Notifications = append(res.Notifications, note)
	}
	return res
}

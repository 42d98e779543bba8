package achievement

import (
	"time"

	"github.com/Starman965/mongoose-sub000/internal/match"
)

// Matches reports whether rec satisfies every criterion of rule. It is a
// pure function and total over well-formed records: absent numeric fields
// read as zero instead of failing the sweep.
//
// Clauses short-circuit in a fixed order so edge-case precedence stays
// deterministic: active flag, date bound, weekday gate, game type/mode/map,
// placement, aggregate kills, per-member kills.
func Matches(rule *Rule, rec *match.Record) bool {
	if !rule.Active {
		return false
	}
	if rule.OccursBy != nil && utcDate(rec.Timestamp).After(utcDate(*rule.OccursBy)) {
		return false
	}
	if len(rule.DaysOfWeek) > 0 && !onWeekday(rule.DaysOfWeek, rec.Timestamp) {
		return false
	}
	if !rule.GameType.Matches(rec.GameType) {
		return false
	}
	if !rule.GameMode.Matches(rec.GameMode) {
		return false
	}
	if !rule.Map.Matches(rec.Map) {
		return false
	}
	if !rule.Placement.Allows(rec.Placement) {
		return false
	}
	if rule.TotalKills != nil && !rule.TotalKills.Met(rec.TotalKills) {
		return false
	}
	for member, cond := range rule.MemberKills {
		if !cond.Met(rec.KillsFor(member)) {
			return false
		}
	}
	return true
}

// utcDate truncates t to its UTC calendar day, so the OccursBy bound is
// inclusive of the whole bound day.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func onWeekday(days []time.Weekday, t time.Time) bool {
	wd := t.UTC().Weekday()
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

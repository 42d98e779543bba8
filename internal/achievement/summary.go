package achievement

// Summary aggregates the catalog for the dashboard header.
type Summary struct {
	TotalRules       int                `json:"totalRules"`
	TotalCompletions int                `json:"totalCompletions"`
	PointsEarned     int                `json:"pointsEarned"`
	ByStatus         map[Status]int     `json:"byStatus"`
	ByDifficulty     map[Difficulty]int `json:"byDifficulty"`
}

// Summarize computes catalog totals. Points accrue once per completion, so
// a repeatable rule earns its points every time it finishes.
// ByDifficulty counts completed rules only.
func Summarize(entries []Entry) Summary {
	s := Summary{
		TotalRules:   len(entries),
		ByStatus:     make(map[Status]int),
		ByDifficulty: make(map[Difficulty]int),
	}
	for _, e := range entries {
		s.ByStatus[e.Progress.Status]++
		s.TotalCompletions += e.Progress.Completions
		s.PointsEarned += e.Rule.Points * e.Progress.Completions
		if e.Progress.Status == StatusCompleted {
			s.ByDifficulty[e.Rule.Difficulty]++
		}
	}
	return s
}

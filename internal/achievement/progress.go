package achievement

import "time"

// Status is the lifecycle state of a rule's progress.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Progress is the mutable running state for one rule, keyed by RuleID.
// It is advanced exclusively by Advance; everything else treats it as a
// value to copy around.
type Progress struct {
	RuleID          string     `json:"ruleId"`
	Status          Status     `json:"status"`
	Current         int        `json:"current"`
	Completions     int        `json:"completions"`
	LastCompletedAt *time.Time `json:"lastCompletedAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Locked is set once a non-repeatable rule completes. A locked rule is
	// never evaluated against new matches.
	Locked bool `json:"locked"`
}

// NewProgress returns the zero progress for a rule.
func NewProgress(ruleID string) Progress {
	return Progress{RuleID: ruleID, Status: StatusNotStarted}
}

// Entry pairs a rule with its progress; the catalog is a slice of entries
// in stable store order.
type Entry struct {
	Rule     Rule     `json:"rule"`
	Progress Progress `json:"progress"`
}

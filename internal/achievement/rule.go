// Package achievement implements the squad's achievement engine: the rule
// catalog, the per-match criteria evaluation, progress advancement, and the
// filter/sort query layer used to present the catalog.
package achievement

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Starman965/mongoose-sub000/internal/match"
)

// Difficulty is the fixed ordered ladder a rule is slotted into.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyModerate  Difficulty = "moderate"
	DifficultyHard      Difficulty = "hard"
	DifficultyExtraHard Difficulty = "extra_hard"
)

// order returns the ladder position for sorting. Unknown values sort after
// extra_hard so a typo in a stored rule does not float it to the top.
func (d Difficulty) order() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyModerate:
		return 1
	case DifficultyHard:
		return 2
	case DifficultyExtraHard:
		return 3
	}
	return 4
}

// anySentinel is the wildcard token used in the JSON encoding of criteria.
// In memory the wildcard is carried by the Criterion tag, never by a
// magic string.
const anySentinel = "Any"

// Criterion matches one string attribute of a match record: either a
// specific value or the wildcard. The zero Criterion is the wildcard, so a
// rule decoded from a sparse payload that omits a criterion key is
// unconstrained on that attribute rather than impossible to satisfy.
type Criterion struct {
	value string
	exact bool
}

// Any returns the wildcard criterion, which every value satisfies.
func Any() Criterion {
	return Criterion{}
}

// Exactly returns a criterion satisfied only by v (case-sensitive).
// The empty string is not a category name; Exactly("") is the wildcard.
func Exactly(v string) Criterion {
	if v == "" {
		return Any()
	}
	return Criterion{value: v, exact: true}
}

// IsAny reports whether the criterion is the wildcard.
func (c Criterion) IsAny() bool {
	return !c.exact
}

// Is reports whether the criterion requires exactly v.
// The wildcard is never "exactly" anything.
func (c Criterion) Is(v string) bool {
	return c.exact && c.value == v
}

// Matches reports whether v satisfies the criterion.
func (c Criterion) Matches(v string) bool {
	return !c.exact || c.value == v
}

func (c Criterion) String() string {
	if !c.exact {
		return anySentinel
	}
	return c.value
}

// MarshalJSON writes the wildcard as the "Any" sentinel the admin tooling
// and stored catalogs use.
func (c Criterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON reads the sentinel encoding. An empty string also decodes
// as the wildcard so sparse admin payloads mean "unconstrained".
func (c *Criterion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == anySentinel {
		*c = Any()
		return nil
	}
	*c = Exactly(s)
	return nil
}

type placementKind int

const (
	placementAny placementKind = iota
	placementOutcome
	placementMaxRank
)

// PlacementRule constrains the match outcome: any placement, a required
// Won/Lost token for session-style modes, or a maximum finishing rank for
// elimination-style modes (lower rank is better, so MaxRank(1) demands a win).
type PlacementRule struct {
	kind    placementKind
	outcome string
	rank    int
}

// AnyPlacement returns the unconstrained placement rule.
func AnyPlacement() PlacementRule {
	return PlacementRule{kind: placementAny}
}

// RequireOutcome returns a rule demanding the given Won/Lost token.
func RequireOutcome(token string) PlacementRule {
	return PlacementRule{kind: placementOutcome, outcome: token}
}

// MaxRank returns a rule demanding a finishing rank of n or better.
func MaxRank(n int) PlacementRule {
	return PlacementRule{kind: placementMaxRank, rank: n}
}

// Allows reports whether the placement satisfies the rule. A rule for one
// placement style never passes the other style: a rank threshold says
// nothing about a Won/Lost match and vice versa, so the mismatch fails
// closed rather than silently counting.
func (pr PlacementRule) Allows(p match.Placement) bool {
	switch pr.kind {
	case placementAny:
		return true
	case placementOutcome:
		token, ok := p.Outcome()
		return ok && token == pr.outcome
	case placementMaxRank:
		rank, ok := p.Rank()
		return ok && rank <= pr.rank
	}
	return false
}

func (pr PlacementRule) String() string {
	switch pr.kind {
	case placementOutcome:
		return pr.outcome
	case placementMaxRank:
		return fmt.Sprintf("%d", pr.rank)
	}
	return anySentinel
}

// MarshalJSON encodes the rule the way placements are stored: "Any", an
// outcome token, or a rank number.
func (pr PlacementRule) MarshalJSON() ([]byte, error) {
	if pr.kind == placementMaxRank {
		return json.Marshal(pr.rank)
	}
	return json.Marshal(pr.String())
}

// UnmarshalJSON accepts a number (max rank), an outcome token, the "Any"
// sentinel, or an empty/absent value (unconstrained).
func (pr *PlacementRule) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*pr = MaxRank(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("placement rule must be a rank number or a token: %s", string(data))
	}
	switch s {
	case "", anySentinel:
		*pr = AnyPlacement()
	default:
		*pr = RequireOutcome(s)
	}
	return nil
}

// Rule is one achievement definition: the immutable criteria a match must
// satisfy plus the lifecycle controls. Running state lives in Progress,
// keyed by the rule's ID.
type Rule struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Points      int        `json:"points"`
	Difficulty  Difficulty `json:"difficulty"`

	GameType    Criterion            `json:"gameType"`
	GameMode    Criterion            `json:"gameMode"`
	Map         Criterion            `json:"map"`
	Placement   PlacementRule        `json:"placement"`
	TotalKills  *Condition           `json:"totalKills,omitempty"`
	MemberKills map[string]Condition `json:"memberKills,omitempty"`

	// OccursBy is an inclusive upper date bound (UTC calendar day) on the
	// match timestamp. DaysOfWeek, when non-empty, restricts matches to the
	// listed weekdays (UTC).
	OccursBy   *time.Time     `json:"occursBy,omitempty"`
	DaysOfWeek []time.Weekday `json:"daysOfWeek,omitempty"`

	Active          bool `json:"active"`
	Repeatable      bool `json:"repeatable"`
	AllowHistorical bool `json:"allowHistorical"`
	TimesRequired   int  `json:"timesRequired"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate rejects rules that must not enter the catalog. Advancement
// assumes a validated rule, so this runs at admin-create and store-load
// time, not in the per-match hot path.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("rule %s: title is required", r.ID)
	}
	if r.TimesRequired < 1 {
		return fmt.Errorf("rule %s: timesRequired must be at least 1, got %d", r.ID, r.TimesRequired)
	}
	if r.Points < 0 {
		return fmt.Errorf("rule %s: points must not be negative", r.ID)
	}
	for _, d := range r.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("rule %s: invalid weekday %d", r.ID, d)
		}
	}
	return nil
}

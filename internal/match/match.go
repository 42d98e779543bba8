// Package match holds the immutable record of one completed game outcome.
package match

import (
	"encoding/json"
	"fmt"
	"time"
)

// Well-known game types. GameType is free-form on the record, but these two
// cover the squad's rotation and drive the placement duality below.
const (
	GameTypeWarzone     = "Warzone"
	GameTypeMultiplayer = "Multiplayer"
)

// Outcome tokens for session-style placements.
const (
	OutcomeWon  = "Won"
	OutcomeLost = "Lost"
)

// Placement is a match outcome: a numeric finishing rank for
// elimination-style modes, or a Won/Lost token for session-style modes.
// The duality is resolved once here, at ingestion time, so the achievement
// evaluator never has to branch on game type to interpret the field.
type Placement struct {
	rank    int
	outcome string
	isRank  bool
}

// Rank returns a placement holding a numeric finishing rank (1 is a win).
func Rank(n int) Placement {
	return Placement{rank: n, isRank: true}
}

// Outcome returns a placement holding a Won/Lost token.
func Outcome(token string) Placement {
	return Placement{outcome: token}
}

// Rank returns the numeric rank and whether this placement carries one.
func (p Placement) Rank() (int, bool) {
	return p.rank, p.isRank
}

// Outcome returns the Won/Lost token and whether this placement carries one.
func (p Placement) Outcome() (string, bool) {
	if p.isRank {
		return "", false
	}
	return p.outcome, true
}

// Won reports whether the placement is the Won outcome token.
func (p Placement) Won() bool {
	return !p.isRank && p.outcome == OutcomeWon
}

func (p Placement) String() string {
	if p.isRank {
		return fmt.Sprintf("%d", p.rank)
	}
	return p.outcome
}

// MarshalJSON encodes a rank as a JSON number and an outcome as a string.
func (p Placement) MarshalJSON() ([]byte, error) {
	if p.isRank {
		return json.Marshal(p.rank)
	}
	return json.Marshal(p.outcome)
}

// UnmarshalJSON accepts either a number (rank) or a string (outcome token).
func (p *Placement) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Rank(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Outcome(s)
		return nil
	}
	return fmt.Errorf("placement must be a rank number or an outcome token: %s", string(data))
}

// Record is one completed game outcome. Records are created once by the
// caller that logs match history and are read-only afterward.
type Record struct {
	ID         string         `json:"id"`
	GameType   string         `json:"gameType"`
	GameMode   string         `json:"gameMode"`
	Map        string         `json:"map"`
	Placement  Placement      `json:"placement"`
	TotalKills int            `json:"totalKills,omitempty"`
	Kills      map[string]int `json:"kills,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// KillsFor returns the recorded kill count for a squad member.
// Members with no entry read as zero.
func (r *Record) KillsFor(member string) int {
	return r.Kills[member]
}

package achievement

import (
	"encoding/json"
	"testing"
)

func TestSparseRulePayloadIsUnconstrained(t *testing.T) {
	// An admin create payload that names no category criteria at all.
	payload := `{"id":"r1","title":"Sparse","placement":"Any","active":true,"timesRequired":1}`

	var rule Rule
	if err := json.Unmarshal([]byte(payload), &rule); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := rule.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for name, c := range map[string]Criterion{
		"gameType": rule.GameType,
		"gameMode": rule.GameMode,
		"map":      rule.Map,
	} {
		if !c.IsAny() {
			t.Errorf("omitted %s key decoded as %v, want wildcard", name, c)
		}
	}

	rec := rankedMatch()
	if !Matches(&rule, &rec) {
		t.Error("sparse rule failed to match a well-formed record")
	}
}

func TestCriterionZeroValueIsWildcard(t *testing.T) {
	var c Criterion
	if !c.IsAny() {
		t.Error("zero Criterion is not the wildcard")
	}
	if !c.Matches("Warzone") {
		t.Error("zero Criterion rejected a value")
	}
	if c.Is("") {
		t.Error(`zero Criterion claims to be exactly ""`)
	}
}

func TestCriterionJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Criterion
		json string
	}{
		{"Wildcard", Any(), `"Any"`},
		{"Exact", Exactly("Verdansk"), `"Verdansk"`},
		{"EmptyExactIsWildcard", Exactly(""), `"Any"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("marshal = %s, want %s", data, tt.json)
			}

			var back Criterion
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tt.in {
				t.Errorf("round trip: %v != %v", back, tt.in)
			}
		})
	}
}

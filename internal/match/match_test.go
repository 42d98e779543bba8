package match

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPlacementJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		rank int
		won  bool
	}{
		{"rank", `3`, 3, false},
		{"won", `"Won"`, 0, true},
		{"lost", `"Lost"`, 0, false},
	}

	for _, tt := range tests {
		var p Placement
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("%s: unmarshal: %v", tt.name, err)
		}
		if r, ok := p.Rank(); ok != (tt.name == "rank") || (ok && r != tt.rank) {
			t.Errorf("%s: Rank() = %d, %v", tt.name, r, ok)
		}
		if p.Won() != tt.won {
			t.Errorf("%s: Won() = %v, want %v", tt.name, p.Won(), tt.won)
		}

		out, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tt.name, err)
		}
		if string(out) != tt.in {
			t.Errorf("%s: round trip = %s, want %s", tt.name, out, tt.in)
		}
	}
}

func TestPlacementUnmarshalRejectsObjects(t *testing.T) {
	var p Placement
	if err := json.Unmarshal([]byte(`{"rank":1}`), &p); err == nil {
		t.Error("expected error for object placement")
	}
}

func TestRecordDecodesMixedPlacements(t *testing.T) {
	blob := `{
		"id": "m1",
		"gameType": "Warzone",
		"gameMode": "Quads",
		"map": "Verdansk",
		"placement": 1,
		"totalKills": 17,
		"kills": {"STARMAN": 9, "DBLTROUBLE": 8},
		"timestamp": "2026-02-11T21:04:00Z"
	}`
	var rec Record
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r, ok := rec.Placement.Rank(); !ok || r != 1 {
		t.Errorf("Placement.Rank() = %d, %v, want 1, true", r, ok)
	}
	if rec.KillsFor("STARMAN") != 9 {
		t.Errorf("KillsFor(STARMAN) = %d, want 9", rec.KillsFor("STARMAN"))
	}
	if rec.KillsFor("ABSENT") != 0 {
		t.Errorf("KillsFor(ABSENT) = %d, want 0", rec.KillsFor("ABSENT"))
	}
	want := time.Date(2026, 2, 11, 21, 4, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, want)
	}
}

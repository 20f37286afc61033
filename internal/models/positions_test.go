package models

import "testing"

func TestBaseSlot(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"UTIL", "UTIL"},
		{"UTIL2", "UTIL"},
		{"UTIL10", "UTIL"},
		{"G1", "G"},
		{"PG", "PG"},
		{"1B", "1B"},
		{"SP2", "SP"},
	}
	for _, tc := range testCases {
		if got := BaseSlot(tc.in); got != tc.want {
			t.Errorf("BaseSlot(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestSlotAllowsNBA(t *testing.T) {
	testCases := []struct {
		slot string
		pos  string
		want bool
	}{
		{"PG", "PG", true},
		{"PG", "SG", false},
		{"G", "PG", true},
		{"G", "SG", true},
		{"G", "SF", false},
		{"F", "SF", true},
		{"F", "PF", true},
		{"F", "C", false},
		{"UTIL", "C", true},
		{"BENCH", "PG", true},
	}
	for _, tc := range testCases {
		if got := SlotAllows(SportNBA, tc.slot, tc.pos); got != tc.want {
			t.Errorf("SlotAllows(nba, %q, %q) = %v, expected %v", tc.slot, tc.pos, got, tc.want)
		}
	}
}

func TestSlotAllowsMLB(t *testing.T) {
	testCases := []struct {
		slot string
		pos  string
		want bool
	}{
		{"P", "SP", true},
		{"P", "RP", true},
		{"P", "OF", false},
		{"UTIL", "1B", true},
		{"UTIL", "SP", false},
		{"UTIL", "RP", false},
		{"BENCH", "SP", true},
		{"SS", "SS", true},
	}
	for _, tc := range testCases {
		if got := SlotAllows(SportMLB, tc.slot, tc.pos); got != tc.want {
			t.Errorf("SlotAllows(mlb, %q, %q) = %v, expected %v", tc.slot, tc.pos, got, tc.want)
		}
	}
}

func TestPlayerEligibleAndPrimary(t *testing.T) {
	p := Player{ID: "p1", Positions: []string{"PG", "SG"}}
	if !p.Eligible("PG") || !p.Eligible("SG") {
		t.Error("player should be eligible at both listed positions")
	}
	if p.Eligible("C") {
		t.Error("player is not eligible at an unlisted position")
	}
	if p.PrimaryPosition() != "PG" {
		t.Errorf("primary position is the first listed, got %s", p.PrimaryPosition())
	}
}

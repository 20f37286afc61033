package render

import (
	"strings"
	"testing"

	"github.com/warroom-labs/draftboard/internal/models"
)

func sampleBoard() models.Board {
	return models.Board{
		Top: []models.Recommendation{
			{
				Player:       models.Player{ID: "1", Name: "Nikola Jokic", Team: "DEN", Positions: []string{"C"}},
				FantasyValue: 58.3,
				VOR:          12.3,
				Trend:        models.Trend{Direction: models.TrendUp, DeltaPct: 0.15},
				ScarcityTier: models.TierScarce,
				Position:     "C",
				FillsNeed:    true,
				Rationale: models.Rationale{
					Notes: []string{"recent form +15% over season pace", "only 4 quality C left on the board"},
				},
			},
			{
				Player:       models.Player{ID: "20", Name: "Chet Holmgren", Team: "OKC", Positions: []string{"C", "PF"}},
				FantasyValue: 38.1,
				VOR:          -2.4,
				Trend:        models.Trend{Direction: models.TrendUp, DeltaPct: 0.16},
				ScarcityTier: models.TierOK,
				Position:     "C",
				Sleeper:      true,
				Rationale: models.Rationale{
					Notes: []string{"sleeper: ranked 14 on raw value but surging"},
				},
			},
			{
				Player:       models.Player{ID: "11", Name: "Damian Lillard", Team: "MIL", Positions: []string{"PG"}},
				FantasyValue: 41.0,
				VOR:          3.0,
				Trend:        models.Trend{Direction: models.TrendSteady, DeltaPct: 0.02},
				ScarcityTier: models.TierDeep,
				Position:     "PG",
			},
		},
		Scarcity: []models.PositionScarcity{
			{Position: "C", QualityCount: 4, Tier: models.TierScarce},
			{Position: "PG", QualityCount: 12, Tier: models.TierDeep},
		},
		Round: 2,
		Pick:  13,
	}
}

func sampleSettings() models.LeagueSettings {
	return models.LeagueSettings{
		Sport:       models.SportNBA,
		Format:      models.FormatPoints,
		TrendWindow: 10,
	}
}

func TestFormatBoardHeader(t *testing.T) {
	out := FormatBoard(sampleBoard(), sampleSettings(), Options{})

	if !strings.Contains(out, "FANTASY DRAFT ASSISTANT -- NBA Points League") {
		t.Errorf("missing header line:\n%s", out)
	}
	if !strings.Contains(out, "Round 2, Pick 13") {
		t.Errorf("missing round/pick line:\n%s", out)
	}
	if !strings.HasPrefix(out, strings.Repeat("=", 72)+"\n") {
		t.Error("board should open with the banner")
	}
	if !strings.HasSuffix(out, strings.Repeat("=", 72)+"\n") {
		t.Error("board should close with the banner")
	}
}

func TestFormatBoardEntries(t *testing.T) {
	out := FormatBoard(sampleBoard(), sampleSettings(), Options{})

	if !strings.Contains(out, "   1. Nikola Jokic (C, DEN) -- VOR: +12.3 [NEED]") {
		t.Errorf("missing first entry line:\n%s", out)
	}
	if !strings.Contains(out, "   2. Chet Holmgren (C/PF, OKC) -- VOR: -2.4 [SLEEPER]") {
		t.Errorf("missing sleeper entry line:\n%s", out)
	}
	if !strings.Contains(out, "Value: 58.3") {
		t.Errorf("missing value line:\n%s", out)
	}
	if !strings.Contains(out, "Last 10: UP 15% from season avg") {
		t.Errorf("missing trend line:\n%s", out)
	}
	if !strings.Contains(out, ">> sleeper: ranked 14 on raw value but surging") {
		t.Errorf("missing note line:\n%s", out)
	}

	// Steady players print no trend line.
	if strings.Contains(out, "Last 10: STEADY") {
		t.Errorf("steady trend should not render:\n%s", out)
	}
}

func TestFormatBoardScarcitySection(t *testing.T) {
	out := FormatBoard(sampleBoard(), sampleSettings(), Options{})

	if !strings.Contains(out, "POSITIONAL SCARCITY") {
		t.Errorf("missing scarcity section:\n%s", out)
	}
	if !strings.Contains(out, "C  :  4 quality options (SCARCE)") {
		t.Errorf("missing scarcity row:\n%s", out)
	}
	if !strings.Contains(out, "PG : 12 quality options (DEEP)") {
		t.Errorf("missing scarcity row:\n%s", out)
	}
}

func TestFormatBoardTopCap(t *testing.T) {
	out := FormatBoard(sampleBoard(), sampleSettings(), Options{Top: 1})

	if !strings.Contains(out, "Nikola Jokic") {
		t.Error("first entry should render")
	}
	if strings.Contains(out, "Chet Holmgren") {
		t.Error("entries past the cap should not render")
	}
}

func TestFormatBoardEmpty(t *testing.T) {
	board := models.Board{Round: 1, Pick: 1}
	out := FormatBoard(board, sampleSettings(), Options{})

	if !strings.Contains(out, "No players available.") {
		t.Errorf("empty board should say so:\n%s", out)
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		format models.Format
		want   string
	}{
		{models.FormatPoints, "Points"},
		{models.FormatCategories, "Categories"},
		{models.FormatRoto, "Roto"},
		{models.FormatH2H, "H2H"},
	}
	for _, tt := range tests {
		if got := formatLabel(tt.format); got != tt.want {
			t.Errorf("formatLabel(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

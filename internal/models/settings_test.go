package models

import (
	"strings"
	"testing"
)

func TestApplyDefaultsFillsKnobs(t *testing.T) {
	ls := LeagueSettings{Sport: SportNBA, Format: FormatCategories}
	ls.ApplyDefaults()

	if ls.LeagueSize != DefaultLeagueSize {
		t.Errorf("expected league size %d, got %d", DefaultLeagueSize, ls.LeagueSize)
	}
	if ls.TrendWindow != DefaultTrendWindow {
		t.Errorf("expected trend window %d, got %d", DefaultTrendWindow, ls.TrendWindow)
	}
	if ls.BlendRecent != DefaultBlendRecent {
		t.Errorf("expected blend %f, got %f", DefaultBlendRecent, ls.BlendRecent)
	}
	if len(ls.RosterSlots) == 0 {
		t.Error("expected the sport's standard lineup")
	}
	if ls.ScoringWeights != nil {
		t.Error("weights must never be silently defaulted")
	}
}

func TestValidateFailsFast(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*LeagueSettings)
		wantErr string
	}{
		{"bad sport", func(ls *LeagueSettings) { ls.Sport = "curling" }, "unknown sport"},
		{"bad format", func(ls *LeagueSettings) { ls.Format = "salary-cap" }, "unknown format"},
		{"points without weights", func(ls *LeagueSettings) { ls.ScoringWeights = nil }, "requires scoring weights"},
		{"unknown weight stat", func(ls *LeagueSettings) { ls.ScoringWeights = map[string]float64{"xg": 1} }, "unknown stat"},
		{"unknown slot", func(ls *LeagueSettings) { ls.RosterSlots = map[string]int{"GK": 1} }, "unknown roster slot"},
		{"zero slot count", func(ls *LeagueSettings) { ls.RosterSlots = map[string]int{"PG": 0} }, "positive count"},
		{"blend out of range", func(ls *LeagueSettings) { ls.BlendRecent = 1.5 }, "recent blend"},
		{"projection weight out of range", func(ls *LeagueSettings) { ls.ProjectionWeight = -0.1 }, "projection weight"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ls := LeagueSettings{
				Sport:          SportNBA,
				Format:         FormatPoints,
				ScoringWeights: map[string]float64{StatPoints: 1},
			}
			ls.ApplyDefaults()
			tc.mutate(&ls)

			err := ls.Validate()
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			if !strings.HasPrefix(err.Error(), "config:") {
				t.Errorf("config errors carry the config: prefix, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected %q in error, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsStandardLeagues(t *testing.T) {
	for _, sport := range []Sport{SportNBA, SportMLB} {
		ls := LeagueSettings{
			Sport:          sport,
			Format:         FormatPoints,
			ScoringWeights: DefaultPointsWeights(sport),
		}
		ls.ApplyDefaults()
		if err := ls.Validate(); err != nil {
			t.Errorf("%s standard league should validate, got %v", sport, err)
		}
	}
}

func TestTrendWeightsFallBackToSportDefaults(t *testing.T) {
	ls := LeagueSettings{Sport: SportNBA, Format: FormatCategories}
	w := ls.TrendWeights()
	if w[StatPoints] != 1.0 || w[StatBlocks] != 3.0 {
		t.Error("category leagues should trend on the sport's standard weights")
	}

	custom := map[string]float64{StatPoints: 2.0}
	ls = LeagueSettings{Sport: SportNBA, Format: FormatPoints, ScoringWeights: custom}
	if ls.TrendWeights()[StatPoints] != 2.0 {
		t.Error("points leagues should trend on their own weights")
	}
}

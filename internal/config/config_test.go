package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
)

func init() {
	logger.Init()
}

func TestDefaultLeagueIsValid(t *testing.T) {
	for _, sport := range []models.Sport{models.SportNBA, models.SportMLB} {
		settings := DefaultLeague(sport)
		if err := settings.Validate(); err != nil {
			t.Errorf("default %s league should validate, got %v", sport, err)
		}
		if settings.Format != models.FormatPoints {
			t.Errorf("default %s league format = %s, want points", sport, settings.Format)
		}
		if len(settings.ScoringWeights) == 0 {
			t.Errorf("default %s league has no scoring weights", sport)
		}
	}
}

func TestLoadLeagueSettingsWithoutFile(t *testing.T) {
	t.Setenv("LEAGUE_SETTINGS_FILE", "")
	t.Setenv("SPORT", "mlb")

	settings, err := LoadLeagueSettings()
	if err != nil {
		t.Fatalf("LoadLeagueSettings() failed: %v", err)
	}
	if settings.Sport != models.SportMLB {
		t.Errorf("expected mlb from SPORT env, got %s", settings.Sport)
	}
	if settings.LeagueSize != models.DefaultLeagueSize {
		t.Errorf("expected default league size, got %d", settings.LeagueSize)
	}
}

func TestLoadLeagueSettingsUnknownSport(t *testing.T) {
	t.Setenv("LEAGUE_SETTINGS_FILE", "")
	t.Setenv("SPORT", "curling")

	_, err := LoadLeagueSettings()
	if err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("expected config error for unknown sport, got %v", err)
	}
}

func TestLoadLeagueSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	body := `{
		"sport": "nba",
		"format": "categories",
		"rosterSlots": {"PG": 1, "SG": 1, "C": 1},
		"leagueSize": 10,
		"trendWindow": 5
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	t.Setenv("LEAGUE_SETTINGS_FILE", path)

	settings, err := LoadLeagueSettings()
	if err != nil {
		t.Fatalf("LoadLeagueSettings() failed: %v", err)
	}
	if settings.Format != models.FormatCategories {
		t.Errorf("expected categories format, got %s", settings.Format)
	}
	if settings.LeagueSize != 10 {
		t.Errorf("expected league size 10, got %d", settings.LeagueSize)
	}
	if settings.TrendWindow != 5 {
		t.Errorf("expected trend window 5, got %d", settings.TrendWindow)
	}
	// Unset knobs still pick up defaults.
	if settings.TopN != models.DefaultTopN {
		t.Errorf("expected default top-n, got %d", settings.TopN)
	}
}

func TestLoadLeagueSettingsPointsWithoutWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	body := `{"sport": "nba", "format": "points", "rosterSlots": {"PG": 1}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	t.Setenv("LEAGUE_SETTINGS_FILE", path)

	_, err := LoadLeagueSettings()
	if err == nil {
		t.Fatal("points league without weights should fail fast")
	}
	if !strings.Contains(err.Error(), "config") || !strings.Contains(err.Error(), "weights") {
		t.Errorf("expected config weights error, got %v", err)
	}
}

func TestLoadLeagueSettingsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	t.Setenv("LEAGUE_SETTINGS_FILE", path)

	if _, err := LoadLeagueSettings(); err == nil {
		t.Fatal("malformed settings file should fail fast")
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("DRAFTBOARD_TEST_KNOB", "")
	if got := Env("DRAFTBOARD_TEST_KNOB", "fallback"); got != "fallback" {
		t.Errorf("Env() with unset var = %q, want fallback", got)
	}
	t.Setenv("DRAFTBOARD_TEST_KNOB", "explicit")
	if got := Env("DRAFTBOARD_TEST_KNOB", "fallback"); got != "explicit" {
		t.Errorf("Env() with set var = %q, want explicit", got)
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warroom-labs/draftboard/internal/logger"
	"github.com/warroom-labs/draftboard/internal/models"
)

// LoadLeagueSettings returns the league configuration for this process: the
// JSON file named by LEAGUE_SETTINGS_FILE when set, otherwise the standard
// league for SPORT (default nba). A file that names a points format must
// carry its own scoring weights; only a fully absent file gets the stock
// league.
func LoadLeagueSettings() (models.LeagueSettings, error) {
	path := os.Getenv("LEAGUE_SETTINGS_FILE")
	if path == "" {
		sportName := os.Getenv("SPORT")
		if sportName == "" {
			sportName = "nba"
		}
		sport, err := models.ParseSport(sportName)
		if err != nil {
			return models.LeagueSettings{}, fmt.Errorf("config: %w", err)
		}
		settings := DefaultLeague(sport)
		logger.Info("Using default league settings", "sport", sport, "format", settings.Format)
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.LeagueSettings{}, fmt.Errorf("config: failed to read league settings file: %w", err)
	}

	var settings models.LeagueSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.LeagueSettings{}, fmt.Errorf("config: failed to parse league settings file %s: %w", path, err)
	}

	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return models.LeagueSettings{}, err
	}

	logger.Info("Loaded league settings", "file", path, "sport", settings.Sport, "format", settings.Format)
	return settings, nil
}

// DefaultLeague returns a complete, valid points league for the sport with
// its standard weights and lineup.
func DefaultLeague(sport models.Sport) models.LeagueSettings {
	settings := models.LeagueSettings{
		Sport:          sport,
		Format:         models.FormatPoints,
		ScoringWeights: models.DefaultPointsWeights(sport),
	}
	settings.ApplyDefaults()
	return settings
}

// Env returns the value of an environment variable, or def when unset.
// Serving knobs (ports, driver names, URLs) read through this.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

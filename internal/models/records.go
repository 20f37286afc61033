package models

// SeasonRecord is the raw per-player record a season-stat provider supplies:
// identity plus season and trailing-window per-game rates. The snapshot
// builder normalizes these into StatSnapshots.
type SeasonRecord struct {
	Player      Player             `json:"player"`
	Season      map[string]float64 `json:"season"`
	Recent      map[string]float64 `json:"recent"`
	GamesPlayed int                `json:"gamesPlayed"`
}

// LiveRecord carries in-progress stat deltas for a player currently in a
// game. Live data is optional per player and per run.
type LiveRecord struct {
	PlayerID string             `json:"playerId"`
	Deltas   map[string]float64 `json:"deltas"`
}

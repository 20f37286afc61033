package models

import "fmt"

// Sport identifies which league's stat schema and defaults apply.
type Sport string

const (
	SportNBA Sport = "nba"
	SportMLB Sport = "mlb"
)

// ParseSport validates a sport string from config or a request.
func ParseSport(s string) (Sport, error) {
	switch Sport(s) {
	case SportNBA, SportMLB:
		return Sport(s), nil
	}
	return "", fmt.Errorf("unknown sport %q (valid: nba, mlb)", s)
}

// Format is the league scoring format.
type Format string

const (
	FormatPoints     Format = "points"
	FormatCategories Format = "categories"
	FormatRoto       Format = "roto"
	FormatH2H        Format = "h2h"
)

// ParseFormat validates a format string from config or a request.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPoints, FormatCategories, FormatRoto, FormatH2H:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (valid: points, categories, roto, h2h)", s)
}

// TrendDirection classifies recent form against the season baseline.
type TrendDirection string

const (
	TrendUp     TrendDirection = "UP"
	TrendDown   TrendDirection = "DOWN"
	TrendSteady TrendDirection = "STEADY"
)

// ScarcityTier describes how thin a position's remaining quality pool is.
type ScarcityTier string

const (
	TierScarce ScarcityTier = "SCARCE"
	TierOK     ScarcityTier = "OK"
	TierDeep   ScarcityTier = "DEEP"
)

// Player is a draftable player. Immutable once loaded for a session;
// Positions is ordered, the first entry being the natural position.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Positions []string `json:"positions"`
	Team      string   `json:"team"`
}

// Eligible reports whether the player can fill the given position.
func (p Player) Eligible(position string) bool {
	for _, pos := range p.Positions {
		if pos == position {
			return true
		}
	}
	return false
}

// PrimaryPosition returns the first listed position, or "" for a malformed player.
func (p Player) PrimaryPosition() string {
	if len(p.Positions) == 0 {
		return ""
	}
	return p.Positions[0]
}

// StatSnapshot is the uniform per-player statistical record the engine
// consumes. SeasonAvg and RecentAvg are per-game rates; Live carries
// in-progress deltas for players currently in a game and is nil otherwise.
// Every key present in RecentAvg is also present in SeasonAvg.
type StatSnapshot struct {
	PlayerID    string             `json:"playerId"`
	SeasonAvg   map[string]float64 `json:"seasonAvg"`
	RecentAvg   map[string]float64 `json:"recentAvg"`
	Live        map[string]float64 `json:"live,omitempty"`
	GamesPlayed int                `json:"gamesPlayed"`
}

// HasLive reports whether the player has in-progress game data.
func (s StatSnapshot) HasLive() bool {
	return len(s.Live) > 0
}

// Trend is a directional recent-form signal with its underlying delta.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	DeltaPct  float64        `json:"deltaPct"`
}

// DraftState is the caller-owned state of one draft session. The engine
// receives it read-only; Drafted is append-only in pick order and never
// overlaps AvailablePool.
type DraftState struct {
	SessionID     string            `json:"sessionId"`
	AvailablePool []Player          `json:"availablePool"`
	Drafted       []Player          `json:"drafted"`
	UserRoster    map[string]string `json:"userRoster"` // slot -> player id, "" = open
	Round         int               `json:"round"`
	Pick          int               `json:"pick"`
}

// DraftedIDs returns the drafted set keyed by player id.
func (d *DraftState) DraftedIDs() map[string]bool {
	ids := make(map[string]bool, len(d.Drafted))
	for _, p := range d.Drafted {
		ids[p.ID] = true
	}
	return ids
}

// OpenSlots returns the roster slots not yet filled, keyed by slot position.
func (d *DraftState) OpenSlots() map[string]int {
	open := make(map[string]int)
	for slot, playerID := range d.UserRoster {
		if playerID == "" {
			open[slot]++
		}
	}
	return open
}

// Rationale is the structured explanation attached to a recommendation.
// Notes carry short human-readable annotations (hot tonight, fills PG need);
// the numeric fields are the inputs the ranking actually used.
type Rationale struct {
	FantasyValue float64  `json:"fantasyValue"`
	VOR          float64  `json:"vor"`
	TrendPct     float64  `json:"trendPct"`
	ScarcityTier string   `json:"scarcityTier"`
	Position     string   `json:"position"`
	Notes        []string `json:"notes,omitempty"`
}

// Recommendation is one ranked board entry. Each recompute yields a fresh
// ordered slice; entries are never mutated in place.
type Recommendation struct {
	Player        Player       `json:"player"`
	FantasyValue  float64      `json:"fantasyValue"`
	VOR           float64      `json:"vor"`
	AdjustedScore float64      `json:"adjustedScore"`
	Trend         Trend        `json:"trend"`
	ScarcityTier  ScarcityTier `json:"scarcityTier"`
	Position      string       `json:"position"` // VOR-maximizing position, scarcity key
	Sleeper       bool         `json:"sleeper"`
	FillsNeed     bool         `json:"fillsNeed"`
	Rationale     Rationale    `json:"rationale"`
}

// PositionScarcity is one row of the per-position scarcity summary.
type PositionScarcity struct {
	Position     string       `json:"position"`
	QualityCount int          `json:"qualityCount"`
	Tier         ScarcityTier `json:"tier"`
}

// Board is one full recompute result: the complete ranked list, the top view
// after presentation filtering, and the scarcity summary.
type Board struct {
	Recommendations []Recommendation   `json:"recommendations"`
	Top             []Recommendation   `json:"top"`
	Scarcity        []PositionScarcity `json:"scarcity"`
	Round           int                `json:"round"`
	Pick            int                `json:"pick"`
}

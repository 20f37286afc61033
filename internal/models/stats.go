package models

// Stat-name schema per sport. Snapshots and scoring weights are validated
// against these tables; unknown keys are rejected at the boundary instead of
// propagating into rankings.

// NBA per-game stat names.
const (
	StatPoints    = "pts"
	StatRebounds  = "reb"
	StatAssists   = "ast"
	StatSteals    = "stl"
	StatBlocks    = "blk"
	StatThrees    = "fg3m"
	StatTurnovers = "tov"
	StatFGPct     = "fg_pct"
	StatFTPct     = "ft_pct"
	StatMinutes   = "min"
	StatGames     = "gp"
)

// MLB per-game stat names, hitting then pitching.
const (
	StatRuns       = "r"
	StatHomeRuns   = "hr"
	StatRBI        = "rbi"
	StatStolenBase = "sb"
	StatBattingAvg = "avg"
	StatWins       = "w"
	StatStrikeouts = "so"
	StatSaves      = "sv"
	StatERA        = "era"
	StatWHIP       = "whip"
)

var nbaStats = map[string]bool{
	StatPoints: true, StatRebounds: true, StatAssists: true, StatSteals: true,
	StatBlocks: true, StatThrees: true, StatTurnovers: true, StatFGPct: true,
	StatFTPct: true, StatMinutes: true, StatGames: true,
}

var mlbStats = map[string]bool{
	StatRuns: true, StatHomeRuns: true, StatRBI: true, StatStolenBase: true,
	StatBattingAvg: true, StatWins: true, StatStrikeouts: true, StatSaves: true,
	StatERA: true, StatWHIP: true, StatGames: true,
}

// KnownStat reports whether name is part of the sport's stat schema.
func KnownStat(sport Sport, name string) bool {
	switch sport {
	case SportNBA:
		return nbaStats[name]
	case SportMLB:
		return mlbStats[name]
	}
	return false
}

// LowerIsBetter reports whether a smaller rate is the good direction for the
// stat (turnovers, ERA, WHIP). Category ranking inverts these.
func LowerIsBetter(name string) bool {
	switch name {
	case StatTurnovers, StatERA, StatWHIP:
		return true
	}
	return false
}

// DefaultPointsWeights returns the sport's standard points-league weights.
// These are also the composite used by trend detection when the league is not
// a points format.
func DefaultPointsWeights(sport Sport) map[string]float64 {
	switch sport {
	case SportNBA:
		return map[string]float64{
			StatPoints:    1.0,
			StatRebounds:  1.2,
			StatAssists:   1.5,
			StatSteals:    3.0,
			StatBlocks:    3.0,
			StatThrees:    0.5,
			StatTurnovers: -1.0,
		}
	case SportMLB:
		return map[string]float64{
			StatRuns:       1.0,
			StatHomeRuns:   4.0,
			StatRBI:        1.0,
			StatStolenBase: 2.0,
			StatWins:       5.0,
			StatStrikeouts: 1.0,
			StatSaves:      5.0,
		}
	}
	return nil
}

// DefaultCategories returns the categories scored when the league is a
// categories, roto, or h2h format: the NBA 9-cat set, or the union of the
// standard MLB hitting and pitching categories.
func DefaultCategories(sport Sport) []string {
	switch sport {
	case SportNBA:
		return []string{
			StatPoints, StatRebounds, StatAssists, StatSteals, StatBlocks,
			StatFGPct, StatFTPct, StatThrees, StatTurnovers,
		}
	case SportMLB:
		return []string{
			StatRuns, StatHomeRuns, StatRBI, StatStolenBase, StatBattingAvg,
			StatWins, StatStrikeouts, StatSaves, StatERA, StatWHIP,
		}
	}
	return nil
}
